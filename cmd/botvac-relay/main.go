package main

import (
	"log"
	"net/http"
	"os"

	"github.com/joshp123/gobotvac/botvac"
	"github.com/joshp123/gobotvac/internal/relay"
)

func main() {
	identityFile := envOrDefault("GOBOTVAC_IDENTITY_FILE", "/etc/gobotvac/robot_identity.json")
	cleaningFile := envOrDefault("GOBOTVAC_CLEANING_FILE", "/etc/gobotvac/robot_cleaning_configuration.json")
	httpAddr := envOrDefault("GOBOTVAC_HTTP_ADDR", ":8080")

	identity, err := relay.LoadIdentity(identityFile)
	if err != nil {
		log.Fatalf("load identity: %v", err)
	}
	cleaning, err := relay.LoadCleaningConfig(cleaningFile)
	if err != nil {
		log.Fatalf("load cleaning configuration: %v", err)
	}

	robot, err := botvac.NewRobot(identity.Serial, identity.Secret, identity.Name,
		botvac.WithTraits(identity.Traits...))
	if err != nil {
		log.Fatalf("robot: %v", err)
	}

	var opts []relay.Option
	if broker := os.Getenv("GOBOTVAC_MQTT_BROKER"); broker != "" {
		announcer, err := relay.NewAnnouncer(broker, os.Getenv("GOBOTVAC_MQTT_TOPIC"))
		if err != nil {
			log.Fatalf("mqtt connect: %v", err)
		}
		defer announcer.Close()
		opts = append(opts, relay.WithAnnouncer(announcer))
	}

	server := relay.New(robot, identity, cleaning, opts...)

	log.Printf("relay for %s (%s) listening on %s", identity.Name, identity.Serial, httpAddr)
	if err := http.ListenAndServe(httpAddr, server.Handler()); err != nil {
		log.Fatalf("http serve: %v", err)
	}
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
