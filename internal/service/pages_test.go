package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"post_scheduler/internal/domain"
	"post_scheduler/internal/facebook"
	"post_scheduler/internal/service/mocks"
)

type PageSyncServiceTestSuite struct {
	suite.Suite
	ctrl *gomock.Controller

	provider  *mocks.MockProvider
	pages     *mocks.MockPageStore
	txManager *mocks.MockTransactionManager

	service *PageSyncService
}

func (s *PageSyncServiceTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.provider = mocks.NewMockProvider(s.ctrl)
	s.pages = mocks.NewMockPageStore(s.ctrl)
	s.txManager = mocks.NewMockTransactionManager(s.ctrl)

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	s.service = NewPageSyncService(s.provider, s.pages, s.txManager, logger)
}

func (s *PageSyncServiceTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestPageSyncServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PageSyncServiceTestSuite))
}

func (s *PageSyncServiceTestSuite) TestSync_UpsertsInsideTransaction() {
	ctx := context.Background()

	s.provider.EXPECT().ListAccounts(ctx, "user-token").Return([]facebook.Account{
		{ID: "111", Name: "Page One", AccessToken: "tok-1", Category: "Retail"},
		{ID: "222", Name: "Page Two", AccessToken: "tok-2", Category: "Media"},
	}, nil)

	s.txManager.EXPECT().WithTransaction(ctx, gomock.Any()).DoAndReturn(
		func(ctx context.Context, fn func(context.Context) error) error {
			return fn(ctx)
		},
	)

	s.pages.EXPECT().UpsertBatch(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, pages []domain.Page) error {
			s.Require().Len(pages, 2)
			s.Equal("111", pages[0].PageID)
			s.Equal("tok-1", pages[0].AccessToken)
			s.Require().NotNil(pages[0].Category)
			s.Equal("Retail", *pages[0].Category)
			return nil
		},
	)

	count, err := s.service.Sync(ctx, "user-token")
	s.Require().NoError(err)
	s.Equal(2, count)
}

func (s *PageSyncServiceTestSuite) TestSync_NoAccounts() {
	ctx := context.Background()

	s.provider.EXPECT().ListAccounts(ctx, "user-token").Return(nil, nil)

	count, err := s.service.Sync(ctx, "user-token")
	s.Require().NoError(err)
	s.Equal(0, count)
}

func (s *PageSyncServiceTestSuite) TestSync_ProviderFailure() {
	ctx := context.Background()

	s.provider.EXPECT().ListAccounts(ctx, "user-token").Return(nil, errors.New("invalid token"))

	_, err := s.service.Sync(ctx, "user-token")
	s.Require().Error(err)
}
