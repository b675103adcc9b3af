package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/totegamma/saucebox"
)

const (
	defaultTimeout = 10 * time.Second
	userAgent      = "saucebox-client"
)

// StatusError is returned for any non 2xx answer of the api.
type StatusError struct {
	Code    int
	Message string
}

func (e StatusError) Error() string {
	return fmt.Sprintf("unexpected status code %d: %s", e.Code, e.Message)
}

// Client talks to a saucebox server. Single sauces are cached for a short
// time and dropped again on every write made through the client.
type Client struct {
	client  *http.Client
	cache   *cache.Cache
	baseURL string
	token   string
}

func New(baseURL string) *Client {
	httpClient := http.Client{
		Timeout: defaultTimeout,
	}

	c := &Client{
		client:  &httpClient,
		cache:   cache.New(30*time.Second, time.Minute),
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
	httpClient.Transport = c
	return c
}

func (c *Client) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Set("User-Agent", userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return http.DefaultTransport.RoundTrip(req)
}

// SetToken sets the bearer token sent with every request.
func (c *Client) SetToken(token string) {
	c.token = token
}

func (c *Client) Signup(ctx context.Context, email, password string) error {
	return c.jsonRequest(ctx, http.MethodPost, "/api/auth/signup", map[string]string{"email": email, "password": password}, nil)
}

// Login signs in and keeps the issued token for later calls.
func (c *Client) Login(ctx context.Context, email, password string) (saucebox.Session, error) {
	var session saucebox.Session
	err := c.jsonRequest(ctx, http.MethodPost, "/api/auth/login", map[string]string{"email": email, "password": password}, &session)
	if err != nil {
		return saucebox.Session{}, err
	}
	c.token = session.Token
	return session, nil
}

func (c *Client) ListSauces(ctx context.Context) ([]saucebox.Sauce, error) {
	var sauces []saucebox.Sauce
	err := c.jsonRequest(ctx, http.MethodGet, "/api/sauces", nil, &sauces)
	return sauces, err
}

func (c *Client) GetSauce(ctx context.Context, id string) (saucebox.Sauce, error) {
	cacheKey := "sauce:" + id
	if x, found := c.cache.Get(cacheKey); found {
		return x.(saucebox.Sauce), nil
	}

	var sauce saucebox.Sauce
	err := c.jsonRequest(ctx, http.MethodGet, "/api/sauces/"+url.PathEscape(id), nil, &sauce)
	if err != nil {
		return saucebox.Sauce{}, err
	}

	c.cache.Set(cacheKey, sauce, cache.DefaultExpiration)
	return sauce, nil
}

type messageResponse struct {
	Message string         `json:"message"`
	Sauce   saucebox.Sauce `json:"sauce"`
}

// CreateSauce uploads a new sauce with its image.
func (c *Client) CreateSauce(ctx context.Context, payload saucebox.SaucePayload, imageName string, image io.Reader) (saucebox.Sauce, error) {
	body, contentType, err := saucePart(payload, imageName, image)
	if err != nil {
		return saucebox.Sauce{}, err
	}

	var res messageResponse
	err = c.do(ctx, http.MethodPost, "/api/sauces", contentType, body, &res)
	return res.Sauce, err
}

// UpdateSauce sends a JSON update, or a multipart update when image is set.
// Only the image upload changes the image url.
func (c *Client) UpdateSauce(ctx context.Context, id string, payload saucebox.SauceUpdate, imageName string, image io.Reader) (saucebox.Sauce, error) {
	defer c.cache.Delete("sauce:" + id)

	path := "/api/sauces/" + url.PathEscape(id)
	var res messageResponse

	if image == nil {
		err := c.jsonRequest(ctx, http.MethodPut, path, payload, &res)
		return res.Sauce, err
	}

	body, contentType, err := saucePart(payload, imageName, image)
	if err != nil {
		return saucebox.Sauce{}, err
	}
	err = c.do(ctx, http.MethodPut, path, contentType, body, &res)
	return res.Sauce, err
}

func (c *Client) DeleteSauce(ctx context.Context, id string) error {
	defer c.cache.Delete("sauce:" + id)
	return c.jsonRequest(ctx, http.MethodDelete, "/api/sauces/"+url.PathEscape(id), nil, nil)
}

// Vote casts like (1), retract (0) or dislike (-1) and returns the server's
// outcome message.
func (c *Client) Vote(ctx context.Context, id string, like int) (saucebox.Sauce, string, error) {
	defer c.cache.Delete("sauce:" + id)

	var res messageResponse
	err := c.jsonRequest(ctx, http.MethodPost, "/api/sauces/"+url.PathEscape(id)+"/like", map[string]int{"like": like}, &res)
	return res.Sauce, res.Message, err
}

func (c *Client) jsonRequest(ctx context.Context, method, path string, payload, response any) error {
	var body io.Reader
	contentType := ""
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request: %v", err)
		}
		body = bytes.NewReader(raw)
		contentType = "application/json"
	}
	return c.do(ctx, method, path, contentType, body, response)
}

func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader, response any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %v", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to perform request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)
		return StatusError{Code: resp.StatusCode, Message: e.Error}
	}

	if response == nil {
		return nil
	}
	err = json.NewDecoder(resp.Body).Decode(response)
	if err != nil {
		return fmt.Errorf("failed to decode response: %v", err)
	}
	return nil
}

func saucePart(payload any, imageName string, image io.Reader) (io.Reader, string, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, "", fmt.Errorf("failed to encode sauce: %v", err)
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	err = w.WriteField("sauce", string(raw))
	if err != nil {
		return nil, "", err
	}

	part, err := w.CreateFormFile("image", imageName)
	if err != nil {
		return nil, "", err
	}
	_, err = io.Copy(part, image)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read image: %v", err)
	}

	err = w.Close()
	if err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
