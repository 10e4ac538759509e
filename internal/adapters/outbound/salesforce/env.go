package salesforce

import "os"

// Environment variables carrying the connected-app credentials.
const (
	EnvInstanceURL  = "SALESFORCE_INSTANCE_URL"
	EnvClientID     = "SALESFORCE_CLIENT_ID"
	EnvClientSecret = "SALESFORCE_CLIENT_SECRET"
)

// CredentialsFromEnv reads the org credentials from the environment.
func CredentialsFromEnv() (Credentials, error) {
	creds := Credentials{
		InstanceURL:  os.Getenv(EnvInstanceURL),
		ClientID:     os.Getenv(EnvClientID),
		ClientSecret: os.Getenv(EnvClientSecret),
	}
	return creds, creds.Validate()
}
