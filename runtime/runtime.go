package runtime

import (
	"net/http"

	"github.com/nyaruka/voicex/client"
)

// Runtime represents the set of services required to handle call events and issue call control
// requests. Used as a wrapper for those services to simplify call signatures.
type Runtime struct {
	Config *Config
	HTTP   *http.Client
	Voice  *client.Client
}
