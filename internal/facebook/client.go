// Package facebook implements the minimal Graph API surface the publish
// protocol needs: photo uploads, feed posts, video/reel uploads, comments
// and the page account directory.
package facebook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultBaseURL      = "https://graph.facebook.com"
	DefaultVideoBaseURL = "https://graph-video.facebook.com"
	DefaultAPIVersion   = "v24.0"
)

// ErrNoProducedID is returned when the provider accepted a call but the
// response carried no object id. Treated as a hard failure by callers.
var ErrNoProducedID = errors.New("provider response contained no id")

// Config holds Graph client configuration.
type Config struct {
	BaseURL      string
	VideoBaseURL string
	APIVersion   string
	Timeout      time.Duration
	VideoTimeout time.Duration
}

// Client is the Graph API client. Video uploads go through a separate
// host and a separate http.Client with a minutes-scale timeout.
type Client struct {
	httpClient  *http.Client
	videoClient *http.Client
	baseURL     string
	videoURL    string
	version     string
	logger      *slog.Logger
}

func New(cfg Config, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.VideoBaseURL == "" {
		cfg.VideoBaseURL = DefaultVideoBaseURL
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = DefaultAPIVersion
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.VideoTimeout == 0 {
		cfg.VideoTimeout = 10 * time.Minute
	}
	return &Client{
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		videoClient: &http.Client{Timeout: cfg.VideoTimeout},
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		videoURL:    strings.TrimRight(cfg.VideoBaseURL, "/"),
		version:     cfg.APIVersion,
		logger:      logger.With("component", "facebook"),
	}
}

// FeedPost is the payload of a createPost call on a page feed.
type FeedPost struct {
	Message          string
	Link             string
	AttachedMediaIDs []string
	ScheduleAt       *time.Time
}

// VideoUpload is the payload of an uploadVideo call.
type VideoUpload struct {
	Path        string
	Description string
	IsReel      bool
	ScheduleAt  *time.Time
}

// UploadPhoto publishes or stages one photo by URL on a page. With
// published=false the photo becomes unpublished media usable as a
// building block for a multi-photo post.
func (c *Client) UploadPhoto(ctx context.Context, pageID, token, imageURL string, published bool) (string, error) {
	params := url.Values{}
	params.Set("url", imageURL)
	params.Set("published", strconv.FormatBool(published))
	params.Set("access_token", token)

	return c.postForm(ctx, c.endpoint(pageID, "photos"), params)
}

// CreatePhotoPost creates a single-photo post with a caption, live or
// deferred at the provider.
func (c *Client) CreatePhotoPost(ctx context.Context, pageID, token, imageURL, caption string, scheduleAt *time.Time) (string, error) {
	params := url.Values{}
	params.Set("url", imageURL)
	params.Set("caption", caption)
	params.Set("access_token", token)
	if scheduleAt != nil {
		params.Set("published", "false")
		params.Set("scheduled_publish_time", strconv.FormatInt(scheduleAt.Unix(), 10))
	} else {
		params.Set("published", "true")
	}

	return c.postForm(ctx, c.endpoint(pageID, "photos"), params)
}

// CreateFeedPost creates a text, link or multi-media post on a page feed.
// Attached media ids must reference previously uploaded unpublished media.
func (c *Client) CreateFeedPost(ctx context.Context, pageID, token string, post FeedPost) (string, error) {
	params := url.Values{}
	params.Set("message", post.Message)
	params.Set("access_token", token)
	if post.Link != "" {
		params.Set("link", post.Link)
	}
	for i, mediaID := range post.AttachedMediaIDs {
		attached, err := json.Marshal(map[string]string{"media_fbid": mediaID})
		if err != nil {
			return "", fmt.Errorf("encode attached media: %w", err)
		}
		params.Set(fmt.Sprintf("attached_media[%d]", i), string(attached))
	}
	if post.ScheduleAt != nil {
		params.Set("published", "false")
		params.Set("scheduled_publish_time", strconv.FormatInt(post.ScheduleAt.Unix(), 10))
	}

	return c.postForm(ctx, c.endpoint(pageID, "feed"), params)
}

// CreateComment posts one comment under a post.
func (c *Client) CreateComment(ctx context.Context, postID, token, message string) (string, error) {
	params := url.Values{}
	params.Set("message", message)
	params.Set("access_token", token)

	return c.postForm(ctx, c.endpoint(postID, "comments"), params)
}

// UploadVideo streams a local video file to the page. Reels add the
// is_reel flag; a schedule time stages the video unpublished. The
// multipart body is piped so the file is never buffered in memory.
func (c *Client) UploadVideo(ctx context.Context, pageID, token string, up VideoUpload) (string, error) {
	file, err := os.Open(up.Path)
	if err != nil {
		return "", fmt.Errorf("open video file: %w", err)
	}

	// The title caps at 100 characters; cut on a rune boundary so
	// multibyte text stays valid.
	title := up.Description
	if runes := []rune(title); len(runes) > 100 {
		title = string(runes[:100])
	}
	if title == "" {
		title = filepath.Base(up.Path)
	}
	fields := map[string]string{
		"title":        title,
		"description":  up.Description,
		"access_token": token,
	}
	if up.IsReel {
		fields["is_reel"] = "true"
	}
	if up.ScheduleAt != nil {
		fields["published"] = "false"
		fields["scheduled_publish_time"] = strconv.FormatInt(up.ScheduleAt.Unix(), 10)
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		defer file.Close()
		pw.CloseWithError(writeVideoForm(mw, fields, file, filepath.Base(up.Path)))
	}()

	endpoint := fmt.Sprintf("%s/%s/%s/videos", c.videoURL, c.version, pageID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, pr)
	if err != nil {
		pr.Close()
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	c.logger.Debug("uploading video",
		"page_id", pageID,
		"path", up.Path,
		"is_reel", up.IsReel,
	)

	return c.doPost(req, c.videoClient)
}

func writeVideoForm(mw *multipart.Writer, fields map[string]string, file *os.File, filename string) error {
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return fmt.Errorf("write field %s: %w", k, err)
		}
	}
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("read video file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("finalize multipart body: %w", err)
	}
	return nil
}

// ListAccounts fetches the pages the user token manages, with their page
// access tokens.
func (c *Client) ListAccounts(ctx context.Context, userToken string) ([]Account, error) {
	endpoint := fmt.Sprintf("%s/%s/me/accounts?%s", c.baseURL, c.version, url.Values{
		"access_token": {userToken},
		"fields":       {"id,name,access_token,category"},
	}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp)
	}

	var accounts accountsResponse
	if err := json.NewDecoder(resp.Body).Decode(&accounts); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return accounts.Data, nil
}

func (c *Client) endpoint(objectID, edge string) string {
	return fmt.Sprintf("%s/%s/%s/%s", c.baseURL, c.version, objectID, edge)
}

func (c *Client) postForm(ctx context.Context, endpoint string, params url.Values) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(params.Encode()))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return c.doPost(req, c.httpClient)
}

func (c *Client) doPost(req *http.Request, client *http.Client) (string, error) {
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", decodeError(resp)
	}

	var post postResponse
	if err := json.NewDecoder(resp.Body).Decode(&post); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if post.producedID() == "" {
		return "", ErrNoProducedID
	}
	return post.producedID(), nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return apiErr
	}
	var envelope errorEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil {
		apiErr.Message = envelope.Error.Message
		apiErr.Type = envelope.Error.Type
		apiErr.Code = envelope.Error.Code
	}
	return apiErr
}
