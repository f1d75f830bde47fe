package botvac

// Vendor describes one cloud brand operating a robot fleet: the base
// URLs for account-level auth and API calls, the default device command
// endpoint, and the OAuth/Auth0 parameters the brand's apps use.
type Vendor struct {
	Name            string
	BeehiveURL      string // account + auth API base
	NucleoURL       string // default device command endpoint
	AcceptHeader    string
	AuthorizeURL    string
	TokenURL        string
	PasswordlessURL string
	Audience        string
	Source          string
	Scope           []string
	OAuthClientID   string
}

// Neato is the original Botvac Connected cloud.
func Neato() Vendor {
	return Vendor{
		Name:         "neato",
		BeehiveURL:   "https://beehive.neatocloud.com/",
		NucleoURL:    "https://nucleo.neatocloud.com:4443",
		AcceptHeader: "application/vnd.neato.nucleo.v1",
		AuthorizeURL: "https://apps.neatorobotics.com/oauth2/authorize",
		TokenURL:     "https://beehive.neatocloud.com/oauth2/token",
		Scope:        []string{"public_profile", "control_robots", "maps"},
	}
}

// Vorwerk is the Kobold rebrand; auth runs through Auth0 with a
// passwordless email grant instead of the Neato password endpoint.
func Vorwerk() Vendor {
	return Vendor{
		Name:            "vorwerk",
		BeehiveURL:      "https://beehive.ksecosys.com/",
		NucleoURL:       "https://nucleo.ksecosys.com:4443",
		AcceptHeader:    "application/vnd.neato.nucleo.v1",
		TokenURL:        "https://mykobold.eu.auth0.com/oauth/token",
		PasswordlessURL: "https://mykobold.eu.auth0.com/passwordless/start",
		Audience:        "https://mykobold.eu.auth0.com/userinfo",
		Source:          "vorwerk_auth0",
		Scope:           []string{"openid", "email", "profile", "read:current_user", "offline_access"},
		OAuthClientID:   "KY4YbVAvtgB7lp8vIbWQ7zLk3hssZlhR",
	}
}
