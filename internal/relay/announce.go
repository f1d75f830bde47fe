package relay

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// Announcer publishes command outcomes to an MQTT broker so other home
// automation pieces can react to the vacuum without polling the relay.
type Announcer struct {
	client mqtt.Client
	topic  string
}

const defaultAnnounceTopic = "gobotvac/relay"

// NewAnnouncer connects to the broker. Connection retries are handled
// by the client; a broker that is down at startup is not fatal.
func NewAnnouncer(broker, topic string) (*Announcer, error) {
	if topic == "" {
		topic = defaultAnnounceTopic
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(broker)
	opts.SetClientID(randomClientID())
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectTimeout(10 * time.Second)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	return &Announcer{client: client, topic: topic}, nil
}

// Publish sends one JSON message tagged with the command name.
func (a *Announcer) Publish(command string, payload any) error {
	msg := map[string]any{
		"command": command,
		"payload": payload,
		"ts":      time.Now().Unix(),
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	if token := a.client.Publish(a.topic, 0, false, data); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	return nil
}

func (a *Announcer) Close() {
	a.client.Disconnect(250)
}

func randomClientID() string {
	nonce := make([]byte, 8)
	_, _ = rand.Read(nonce)
	return "gobotvac-" + base64.RawURLEncoding.EncodeToString(nonce)
}
