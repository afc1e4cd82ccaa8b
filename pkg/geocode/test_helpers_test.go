package geocode

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/schlagwetter/internal/model"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

// nominatimPrefix is the part of DefaultURLTemplate tests redirect.
const nominatimPrefix = "https://nominatim.openstreetmap.org"

// newRewriteClient creates an HTTP client that rewrites requests to a test server URL.
// All requests matching the target prefix are redirected to the test server.
func newRewriteClient(testServerURL, targetPrefix string) *http.Client {
	return &http.Client{
		Transport: &rewriteTransport{
			base:         http.DefaultTransport,
			testServer:   testServerURL,
			targetPrefix: targetPrefix,
		},
	}
}

type rewriteTransport struct {
	base         http.RoundTripper
	testServer   string
	targetPrefix string
}

func (t *rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	origURL := req.URL.String()
	if strings.HasPrefix(origURL, t.targetPrefix) {
		suffix := origURL[len(t.targetPrefix):]
		newURL := t.testServer + suffix
		newReq := req.Clone(req.Context())
		parsed, err := req.URL.Parse(newURL)
		if err != nil {
			return nil, err
		}
		newReq.URL = parsed
		newReq.Host = parsed.Host
		return t.base.RoundTrip(newReq)
	}
	return t.base.RoundTrip(req)
}

func coord(pair [2]string) *model.Coordinate {
	return &model.Coordinate{Lat: pair[0], Lon: pair[1]}
}
