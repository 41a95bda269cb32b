package config

import "os"

const (
	// EnvApiEndpoint overrides the base URL of the Cloudglass API.
	EnvApiEndpoint = "CLOUDGLASS_API_ENDPOINT"
	// EnvApiToken carries the bearer token for API calls.  Token acquisition
	// is out of scope here; some external login flow puts it in place.
	EnvApiToken = "CLOUDGLASS_API_TOKEN"
	// EnvCommandsPath points at an on-disk command manifest tree to use
	// instead of the manifests compiled into the binary.
	EnvCommandsPath = "CLOUDGLASS_COMMANDS_PATH"
	// EnvDebug turns on debug logging, same as --debug.
	EnvDebug = "CLOUDGLASS_DEBUG"
)

// NOTE: keep this up to date or the config loader won't load them
var envKeys = []string{
	EnvApiEndpoint,
	EnvApiToken,
	EnvCommandsPath,
	EnvDebug,
}

const DefaultApiEndpoint = "https://api.cloudglass.example.com"

type Config struct {
	ApiEndpoint  string
	ApiToken     string
	CommandsPath string
	Debug        bool
}

// FromEnvironment builds a Config from the process environment, applying
// defaults for anything unset.
func FromEnvironment() Config {
	env := map[string]string{}
	for _, k := range envKeys {
		env[k] = os.Getenv(k)
	}
	cfg := Config{
		ApiEndpoint:  env[EnvApiEndpoint],
		ApiToken:     env[EnvApiToken],
		CommandsPath: env[EnvCommandsPath],
		Debug:        env[EnvDebug] != "",
	}
	if cfg.ApiEndpoint == "" {
		cfg.ApiEndpoint = DefaultApiEndpoint
	}
	return cfg
}
