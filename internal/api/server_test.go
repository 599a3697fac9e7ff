package api

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"post_scheduler/internal/domain"
	"post_scheduler/internal/scheduler"
	"post_scheduler/internal/service/mocks"
	"post_scheduler/testdata/utils"
)

type fakeTrigger struct {
	err   error
	calls int
}

func (f *fakeTrigger) TriggerScan() error {
	f.calls++
	return f.err
}

type fakePending struct {
	items []domain.ContentItem
	err   error
}

func (f *fakePending) PendingToday(context.Context) ([]domain.ContentItem, error) {
	return f.items, f.err
}

type fakePageSync struct {
	count int
	err   error
	token string
}

func (f *fakePageSync) Sync(_ context.Context, userToken string) (int, error) {
	f.token = userToken
	return f.count, f.err
}

type ServerTestSuite struct {
	suite.Suite
	ctrl *gomock.Controller

	contents   *mocks.MockContentStore
	templates  *mocks.MockTemplateStore
	pages      *mocks.MockPageStore
	dispatcher *mocks.MockDispatcher
	trigger    *fakeTrigger
	pending    *fakePending
	pageSync   *fakePageSync

	server *Server
}

func (s *ServerTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())

	s.contents = mocks.NewMockContentStore(s.ctrl)
	s.templates = mocks.NewMockTemplateStore(s.ctrl)
	s.pages = mocks.NewMockPageStore(s.ctrl)
	s.dispatcher = mocks.NewMockDispatcher(s.ctrl)
	s.trigger = &fakeTrigger{}
	s.pending = &fakePending{}
	s.pageSync = &fakePageSync{}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	s.server = NewServer(s.contents, s.templates, s.pages, s.dispatcher, s.pending, s.trigger, s.pageSync, logger)
}

func (s *ServerTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestServerTestSuite(t *testing.T) {
	suite.Run(t, new(ServerTestSuite))
}

func (s *ServerTestSuite) request(method, path string, body any) *http.Response {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.server.App().Test(req)
	s.Require().NoError(err)
	return resp
}

func (s *ServerTestSuite) decode(resp *http.Response, results any) ResponseData {
	defer resp.Body.Close()
	var envelope struct {
		Code    string          `json:"code"`
		Message string          `json:"message"`
		Results json.RawMessage `json:"results"`
	}
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&envelope))
	if results != nil && len(envelope.Results) > 0 {
		s.Require().NoError(json.Unmarshal(envelope.Results, results))
	}
	return ResponseData{Code: envelope.Code, Message: envelope.Message}
}

func (s *ServerTestSuite) TestHealth() {
	resp := s.request(http.MethodGet, "/api/health", nil)
	s.Equal(http.StatusOK, resp.StatusCode)
}

func (s *ServerTestSuite) TestCreateContent() {
	s.contents.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, item *domain.ContentItem) error {
			s.Equal("Morning promo", item.Name)
			s.Equal([]string{"111", "222"}, item.TargetPageIDs)
			s.Equal(domain.StateScheduled, item.State)
			item.ID = "item-1"
			return nil
		},
	)

	resp := s.request(http.MethodPost, "/api/contents", CreateContentRequest{
		Name:          "Morning promo",
		Body:          "hello",
		ImageURLs:     []string{"https://cdn.example/a.jpg"},
		TargetPageIDs: []string{"111", "222"},
	})
	s.Equal(http.StatusCreated, resp.StatusCode)

	var item domain.ContentItem
	env := s.decode(resp, &item)
	s.Equal("SUCCESS", env.Code)
	s.Equal("item-1", item.ID)
}

func (s *ServerTestSuite) TestCreateContent_VideoReel() {
	s.contents.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, item *domain.ContentItem) error {
			s.Equal("/media/clip.mp4", item.VideoPath)
			s.True(item.IsReel)
			item.ID = "item-1"
			return nil
		},
	)

	resp := s.request(http.MethodPost, "/api/contents", CreateContentRequest{
		Name:          "Reel clip",
		VideoPath:     "/media/clip.mp4",
		IsReel:        true,
		TargetPageIDs: []string{"111"},
	})
	s.Equal(http.StatusCreated, resp.StatusCode)
}

func (s *ServerTestSuite) TestCreateContent_ValidationErrors() {
	cases := []CreateContentRequest{
		{Body: "no name", TargetPageIDs: []string{"111"}},
		{Name: "no targets"},
		{Name: "both media", TargetPageIDs: []string{"111"}, ImageURLs: []string{"a"}, VideoPath: "/v.mp4"},
		{Name: "too many images", TargetPageIDs: []string{"111"},
			ImageURLs: []string{"1", "2", "3", "4", "5", "6", "7", "8", "9"}},
		{Name: "reel without video", TargetPageIDs: []string{"111"}, IsReel: true},
	}

	for _, req := range cases {
		resp := s.request(http.MethodPost, "/api/contents", req)
		s.Equal(http.StatusBadRequest, resp.StatusCode, "request %+v", req)
	}
}

func (s *ServerTestSuite) TestGetContent_NotFound() {
	s.contents.EXPECT().GetByID(gomock.Any(), "missing").Return(nil, domain.ErrContentNotFound)

	resp := s.request(http.MethodGet, "/api/contents/missing", nil)
	s.Equal(http.StatusNotFound, resp.StatusCode)
}

func (s *ServerTestSuite) TestPublishContent() {
	item := &domain.ContentItem{ID: "item-1", TargetPageIDs: []string{"111"}}
	s.contents.EXPECT().GetByID(gomock.Any(), "item-1").Return(item, nil)
	s.dispatcher.EXPECT().Dispatch(gomock.Any(), item, nil).Return(&domain.DispatchReport{
		ItemID:  "item-1",
		Outcome: domain.DispatchSuccess,
		Message: "published to 1/1 pages, attempted 0 comments",
	}, nil)

	resp := s.request(http.MethodPost, "/api/contents/item-1/publish", nil)
	s.Equal(http.StatusOK, resp.StatusCode)

	var report domain.DispatchReport
	s.decode(resp, &report)
	s.Equal(domain.DispatchSuccess, report.Outcome)
}

func (s *ServerTestSuite) TestPublishContent_Deferred() {
	deferAt := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
	item := &domain.ContentItem{ID: "item-1", TargetPageIDs: []string{"111"}}

	s.contents.EXPECT().GetByID(gomock.Any(), "item-1").Return(item, nil)
	s.dispatcher.EXPECT().Dispatch(gomock.Any(), item, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ *domain.ContentItem, gotDefer *time.Time) (*domain.DispatchReport, error) {
			s.Require().NotNil(gotDefer)
			s.True(gotDefer.Equal(deferAt))
			return &domain.DispatchReport{ItemID: "item-1", Outcome: domain.DispatchSuccess}, nil
		},
	)

	resp := s.request(http.MethodPost, "/api/contents/item-1/publish",
		PublishContentRequest{DeferAt: utils.Ptr(deferAt)})
	s.Equal(http.StatusOK, resp.StatusCode)
}

func (s *ServerTestSuite) TestPublishContent_DeferInPast() {
	resp := s.request(http.MethodPost, "/api/contents/item-1/publish",
		PublishContentRequest{DeferAt: utils.Ptr(time.Now().Add(-time.Hour))})
	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *ServerTestSuite) TestPublishContent_NoTargets() {
	item := &domain.ContentItem{ID: "item-1"}
	s.contents.EXPECT().GetByID(gomock.Any(), "item-1").Return(item, nil)
	s.dispatcher.EXPECT().Dispatch(gomock.Any(), item, nil).Return(nil, domain.ErrNoTargets)

	resp := s.request(http.MethodPost, "/api/contents/item-1/publish", nil)
	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *ServerTestSuite) TestTriggerScan() {
	resp := s.request(http.MethodPost, "/api/scan", nil)
	s.Equal(http.StatusAccepted, resp.StatusCode)
	s.Equal(1, s.trigger.calls)
}

func (s *ServerTestSuite) TestTriggerScan_Conflict() {
	s.trigger.err = scheduler.ErrScanInProgress

	resp := s.request(http.MethodPost, "/api/scan", nil)
	s.Equal(http.StatusConflict, resp.StatusCode)

	env := s.decode(resp, nil)
	s.Equal("SCAN_IN_PROGRESS", env.Code)
}

func (s *ServerTestSuite) TestListPending() {
	s.pending.items = []domain.ContentItem{{ID: "a"}, {ID: "b"}}

	resp := s.request(http.MethodGet, "/api/pending", nil)
	s.Equal(http.StatusOK, resp.StatusCode)

	var items []domain.ContentItem
	s.decode(resp, &items)
	s.Len(items, 2)
}

func (s *ServerTestSuite) TestSyncPages() {
	s.pageSync.count = 3

	resp := s.request(http.MethodPost, "/api/pages/sync", SyncPagesRequest{UserToken: "user-token"})
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Equal("user-token", s.pageSync.token)
}

func (s *ServerTestSuite) TestSyncPages_MissingToken() {
	resp := s.request(http.MethodPost, "/api/pages/sync", SyncPagesRequest{})
	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *ServerTestSuite) TestListPages_HidesTokens() {
	s.pages.EXPECT().List(gomock.Any()).Return([]domain.Page{
		{PageID: "111", Name: "Page One", AccessToken: "secret", Category: utils.Ptr("Retail")},
	}, nil)

	resp := s.request(http.MethodGet, "/api/pages", nil)
	s.Equal(http.StatusOK, resp.StatusCode)

	var raw []map[string]any
	s.decode(resp, &raw)
	s.Require().Len(raw, 1)
	s.Equal("111", raw[0]["page_id"])
	s.NotContains(raw[0], "access_token")
}

func (s *ServerTestSuite) TestCreateTemplate() {
	s.templates.EXPECT().Create(gomock.Any(), "cta", "check the link").Return("tpl-1", nil)

	resp := s.request(http.MethodPost, "/api/templates", CreateTemplateRequest{
		Name:    "cta",
		Content: "check the link",
	})
	s.Equal(http.StatusCreated, resp.StatusCode)

	var result map[string]string
	s.decode(resp, &result)
	s.Equal("tpl-1", result["id"])
}
