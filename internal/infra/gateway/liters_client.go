package gateway

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"gasolinera-golang/internal/domain"

	"github.com/valyala/fasthttp"
	"github.com/valyala/fastjson"
)

const (
	LitersPath  = "/datos_litros_distribuidos"
	LitersField = "litros_distribuidos"
)

// LitersClient reads the liters distributed payload from one upstream.
type LitersClient struct {
	client *fasthttp.HostClient
	uri    string
	parser fastjson.ParserPool
}

// NewLitersClient builds a client for baseURL, e.g. "http://localhost:8080".
func NewLitersClient(baseURL string) (*LitersClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse liters base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("liters base url %q: scheme must be http or https", baseURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("liters base url %q: missing host", baseURL)
	}

	isTLS := u.Scheme == "https"
	addr := u.Host
	if u.Port() == "" {
		if isTLS {
			addr += ":443"
		} else {
			addr += ":80"
		}
	}

	return &LitersClient{
		client: &fasthttp.HostClient{
			Addr:  addr,
			IsTLS: isTLS,
			Name:  "liters-widget",
		},
		uri: u.Scheme + "://" + u.Host + strings.TrimSuffix(u.Path, "/") + LitersPath,
	}, nil
}

func (c *LitersClient) URI() string { return c.uri }

// FetchLiters performs a single GET. Any transport failure, non-2xx status
// or non-JSON body is returned as a *domain.FetchError. A missing or
// non-numeric field is not an error here; the reading reports it.
func (c *LitersClient) FetchLiters(ctx context.Context) (domain.LitersReading, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.uri)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set(fasthttp.HeaderAccept, "application/json")

	if err := ctx.Err(); err != nil {
		return domain.LitersReading{}, &domain.FetchError{Stage: "request", Err: err}
	}

	var err error
	if deadline, ok := ctx.Deadline(); ok {
		err = c.client.DoDeadline(req, resp, deadline)
	} else {
		err = c.client.Do(req, resp)
	}
	if err != nil {
		return domain.LitersReading{}, &domain.FetchError{Stage: "request", Err: err}
	}

	status := resp.StatusCode()
	if status < 200 || status >= 300 {
		return domain.LitersReading{}, &domain.FetchError{
			Stage: "response",
			Err:   fmt.Errorf("%w: %d", domain.ErrUnexpectedStatus, status),
		}
	}

	reading, err := c.decode(resp.Body())
	if err != nil {
		return domain.LitersReading{}, &domain.FetchError{Stage: "decode", Err: err}
	}
	return reading, nil
}

func (c *LitersClient) decode(body []byte) (domain.LitersReading, error) {
	p := c.parser.Get()
	defer c.parser.Put(p)

	v, err := p.ParseBytes(body)
	if err != nil {
		return domain.LitersReading{}, fmt.Errorf("%w: %v", domain.ErrMalformedBody, err)
	}
	if v.Type() != fastjson.TypeObject {
		return domain.LitersReading{}, fmt.Errorf("%w: top-level %s is not an object", domain.ErrMalformedBody, v.Type())
	}
	return ReadLiters(v), nil
}

// ReadLiters extracts the litros_distribuidos field from a parsed payload.
// The returned reading does not reference v.
func ReadLiters(v *fastjson.Value) domain.LitersReading {
	f := v.Get(LitersField)
	if f == nil {
		return domain.LitersReading{}
	}

	r := domain.LitersReading{Present: true}
	switch f.Type() {
	case fastjson.TypeNumber:
		n, err := f.Float64()
		if err == nil {
			r.Numeric = true
			r.Liters = n
		}
		r.Raw = f.String()
	case fastjson.TypeString:
		r.Raw = string(f.GetStringBytes())
	default:
		r.Raw = f.String()
	}
	return r
}
