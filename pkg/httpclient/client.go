package httpclient

import (
	"crypto/tls"
	"net/http"
	"net/url"
	"os"
	"strings"

	// Packages
	schema "github.com/mutablelogic/go-catalog/pkg/schema"
	client "github.com/mutablelogic/go-client"
	httpresponse "github.com/mutablelogic/go-server/pkg/httpresponse"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Client is a catalog HTTP client that wraps the base HTTP client
// and provides typed methods for the catalog action API.
type Client struct {
	*client.Client
	endpoint *url.URL
	token    string
	csrf     string
}

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// New creates a new catalog client with the given base URL and options.
// The url parameter should point to the catalog root, e.g.
// "https://data.example.com".
func New(endpoint string, opts ...client.ClientOpt) (*Client, error) {
	c := new(Client)
	if u, err := url.Parse(endpoint); err != nil {
		return nil, err
	} else if u.Scheme != "http" && u.Scheme != "https" {
		return nil, httpresponse.ErrBadRequest.Withf("invalid catalog endpoint %q", endpoint)
	} else {
		u.Path = strings.TrimSuffix(u.Path, "/")
		c.endpoint = u
	}
	cl, err := client.New(append(opts, client.OptEndpoint(c.endpoint.String()))...)
	if err != nil {
		return nil, err
	}
	if isTruthyEnv("CATALOG_HTTP1") {
		tr, ok := cl.Client.Transport.(*http.Transport)
		if !ok || tr == nil {
			tr = http.DefaultTransport.(*http.Transport)
		}
		tr = tr.Clone()
		tr.ForceAttemptHTTP2 = false
		tr.TLSNextProto = map[string]func(string, *tls.Conn) http.RoundTripper{}
		cl.Client.Transport = tr
	}
	c.Client = cl
	return c, nil
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// WithToken returns a client which sends the API token with every request,
// and the CSRF token with every mutating request. The underlying connection
// is shared.
func (c *Client) WithToken(token, csrf string) *Client {
	clone := *c
	clone.token = token
	clone.csrf = csrf
	return &clone
}

// Endpoint returns the catalog root URL
func (c *Client) Endpoint() string {
	return c.endpoint.String()
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func (c *Client) url(path ...string) *url.URL {
	u := *c.endpoint
	u.Path = u.Path + "/" + strings.Join(path, "/")
	u.RawQuery = ""
	return &u
}

// setHeaders adds the authorization headers for a request
func (c *Client) setHeaders(req *http.Request) {
	if c.token != "" {
		req.Header.Set(schema.AuthorizationHeader, c.token)
	}
	if c.csrf != "" && req.Method != http.MethodGet {
		req.Header.Set(schema.CSRFTokenHeader, c.csrf)
	}
}

func isTruthyEnv(key string) bool {
	v := strings.TrimSpace(strings.ToLower(os.Getenv(key)))
	return v != "" && v != "0" && v != "false" && v != "no" && v != "off"
}
