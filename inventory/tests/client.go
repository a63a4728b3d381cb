package tests

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"model_inventory/inventory/schema"
	"model_inventory/inventory/store"
	"net/http"
	"net/http/httptest"
	"net/url"

	"github.com/go-chi/chi/v5"
)

type httpTestRequest struct {
	api http.Handler

	method   string
	endpoint string
	headers  map[string]string
	json     interface{}
	body     io.Reader
}

func newHttpTestRequest(api http.Handler, method, endpoint string) *httpTestRequest {
	return &httpTestRequest{
		api:      api,
		method:   method,
		endpoint: endpoint,
		headers:  nil,
		json:     nil,
		body:     nil,
	}
}

func (r *httpTestRequest) Header(key, value string) *httpTestRequest {
	if r.headers == nil {
		r.headers = make(map[string]string)
	}
	r.headers[key] = value
	return r
}

func (r *httpTestRequest) Auth(token string) *httpTestRequest {
	return r.Header("Authorization", fmt.Sprintf("Bearer %v", token))
}

func (r *httpTestRequest) Json(data interface{}) *httpTestRequest {
	r.json = data
	return r
}

func (r *httpTestRequest) send() *httptest.ResponseRecorder {
	if r.json != nil {
		body := new(bytes.Buffer)
		if err := json.NewEncoder(body).Encode(r.json); err != nil {
			panic(fmt.Sprintf("error encoding json body for endpoint %v: %v", r.endpoint, err))
		}
		r.body = body
	}

	req := httptest.NewRequest(r.method, r.endpoint, r.body)
	if r.headers != nil {
		for k, v := range r.headers {
			req.Header.Add(k, v)
		}
	}

	w := httptest.NewRecorder()
	r.api.ServeHTTP(w, req)
	return w
}

// response body will be parsed into result, passing nil indicates that no result is returned.
func (r *httpTestRequest) Do(result interface{}) error {
	w := r.send()

	res := w.Result()
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		if res.StatusCode == http.StatusUnauthorized {
			return ErrUnauthorized
		}
		return fmt.Errorf("%v request to endpoint %v returned status %d, content '%v'", r.method, r.endpoint, res.StatusCode, w.Body.String())
	}

	if result != nil {
		err := json.NewDecoder(res.Body).Decode(result)
		if err != nil {
			return fmt.Errorf("error parsing %v response from endpoint %v: %w", r.method, r.endpoint, err)
		}
	}

	return nil
}

// DoRaw returns the status code and raw body, for tests asserting on error
// responses directly.
func (r *httpTestRequest) DoRaw() (int, string) {
	w := r.send()
	res := w.Result()
	defer res.Body.Close()
	return res.StatusCode, w.Body.String()
}

var ErrUnauthorized = errors.New("unauthorized")

type client struct {
	api       chi.Router
	authToken string
	email     string
}

func (c *client) Get(endpoint string) *httpTestRequest {
	r := newHttpTestRequest(c.api, "GET", endpoint)
	if c.authToken != "" {
		return r.Auth(c.authToken)
	}
	return r
}

func (c *client) Post(endpoint string) *httpTestRequest {
	r := newHttpTestRequest(c.api, "POST", endpoint)
	if c.authToken != "" {
		return r.Auth(c.authToken)
	}
	return r
}

func (c *client) Put(endpoint string) *httpTestRequest {
	r := newHttpTestRequest(c.api, "PUT", endpoint)
	if c.authToken != "" {
		return r.Auth(c.authToken)
	}
	return r
}

func (c *client) Delete(endpoint string) *httpTestRequest {
	r := newHttpTestRequest(c.api, "DELETE", endpoint)
	if c.authToken != "" {
		return r.Auth(c.authToken)
	}
	return r
}

func (c *client) createModel(listing schema.Listing) (store.InsertResult, error) {
	var res store.InsertResult
	err := c.Post("/models").Json(listing).Do(&res)
	return res, err
}

// getModel returns nil when the listing does not exist, matching the empty
// response body the endpoint returns in that case.
func (c *client) getModel(id string) (*schema.Listing, error) {
	var res *schema.Listing
	err := c.Get(fmt.Sprintf("/models/%v", id)).Do(&res)
	return res, err
}

type updateModelResult struct {
	Success bool               `json:"success"`
	Result  store.UpdateResult `json:"result"`
}

func (c *client) updateModel(id string, update map[string]interface{}) (updateModelResult, error) {
	var res updateModelResult
	err := c.Put(fmt.Sprintf("/models/%v", id)).Json(update).Do(&res)
	return res, err
}

func (c *client) deleteModel(id string) (store.DeleteResult, error) {
	var res store.DeleteResult
	err := c.Delete(fmt.Sprintf("/models/%v", id)).Do(&res)
	return res, err
}

func (c *client) listModels() ([]schema.Listing, error) {
	var res []schema.Listing
	err := c.Get("/models").Do(&res)
	return res, err
}

func (c *client) latestModels() ([]schema.Listing, error) {
	var res []schema.Listing
	err := c.Get("/latest-models").Do(&res)
	return res, err
}

func (c *client) myModels() ([]schema.Listing, error) {
	var res []schema.Listing
	err := c.Get(fmt.Sprintf("/my-models?email=%v", url.QueryEscape(c.email))).Do(&res)
	return res, err
}

func (c *client) search(text, framework string) ([]schema.Listing, error) {
	params := url.Values{}
	params.Set("search", text)
	if framework != "" {
		params.Set("framework", framework)
	}

	var res []schema.Listing
	err := c.Get("/search?" + params.Encode()).Do(&res)
	return res, err
}

type purchaseResult struct {
	Result       store.InsertResult `json:"result"`
	UpdatedModel store.UpdateResult `json:"updatedModel"`
}

func (c *client) purchase(modelId string, purchase schema.Purchase) (purchaseResult, error) {
	var res purchaseResult
	err := c.Post(fmt.Sprintf("/purchased-model/%v", modelId)).Json(purchase).Do(&res)
	return res, err
}

func (c *client) purchasePage() ([]schema.Purchase, error) {
	var res []schema.Purchase
	err := c.Get(fmt.Sprintf("/model-purchase-page?email=%v", url.QueryEscape(c.email))).Do(&res)
	return res, err
}
