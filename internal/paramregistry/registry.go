// Package paramregistry resolves named parameter sets from a remote registry.
package paramregistry

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	json "github.com/goccy/go-json"

	"stroke-outcome-engine/internal/model"
)

// Registry fetches parameter sets over HTTP and caches the valid ones.
// Without a base URL every lookup falls back to the default set.
type Registry struct {
	baseURL  string
	client   *http.Client
	cache    sync.Map
	fallback *model.Parameters
}

func New(baseURL string, fallback *model.Parameters) *Registry {
	r := &Registry{baseURL: baseURL, fallback: fallback}
	if baseURL != "" {
		r.client = &http.Client{
			Timeout: 2 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 100,
				IdleConnTimeout:     90 * time.Second,
			},
		}
	}
	return r
}

// Default returns the fallback parameter set.
func (r *Registry) Default() *model.Parameters {
	return r.fallback
}

// Lookup returns the parameter set named id. An empty id selects the
// default. fellBack reports that the registry was unavailable or did not
// know the id and the default was returned instead. A set the registry does
// return but that is incomplete or invalid is an error, never a fallback.
func (r *Registry) Lookup(ctx context.Context, id string) (p *model.Parameters, fellBack bool, err error) {
	if id == "" {
		return r.fallback, false, nil
	}
	if cached, ok := r.cache.Load(id); ok {
		return cached.(*model.Parameters), false, nil
	}
	if r.baseURL == "" {
		return r.fallback, true, nil
	}

	body, err := r.fetch(ctx, id)
	if err != nil {
		return r.fallback, true, nil
	}
	p, err = decode(body)
	if err != nil {
		return nil, false, fmt.Errorf("parameter set %q: %w", id, err)
	}
	r.cache.Store(id, p)
	return p, false, nil
}

// fetch returns the registry's document for id. A body that is not valid
// JSON counts as a failed fetch.
func (r *Registry) fetch(ctx context.Context, id string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+"/parameter-sets/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("registry returned %d for %q", resp.StatusCode, id)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("registry returned malformed JSON for %q", id)
	}
	return body, nil
}

// decode requires a fully populated parameter set and validates it.
func decode(body []byte) (*model.Parameters, error) {
	var doc map[string]interface{}
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, &model.ConfigurationError{Field: "parameters", Reason: err.Error()}
	}
	if err := model.CheckComplete(doc); err != nil {
		return nil, err
	}
	p := &model.Parameters{}
	if err := json.Unmarshal(body, p); err != nil {
		return nil, &model.ConfigurationError{Field: "parameters", Reason: err.Error()}
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}
