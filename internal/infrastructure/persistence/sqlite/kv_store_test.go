package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm/logger"

	"github.com/chefai/chefai/internal/ports/outbound"
)

type KVStoreTestSuite struct {
	suite.Suite
	path  string
	store *KVStore
	ctx   context.Context
}

func (s *KVStoreTestSuite) SetupTest() {
	s.path = filepath.Join(s.T().TempDir(), "chefai.db")
	s.store = s.open()
	s.ctx = context.Background()
}

func (s *KVStoreTestSuite) TearDownTest() {
	s.NoError(s.store.Close())
}

func (s *KVStoreTestSuite) open() *KVStore {
	db, err := SetupDatabase(s.path, logger.Silent)
	s.Require().NoError(err)
	return NewKVStore(db, zaptest.NewLogger(s.T()))
}

func (s *KVStoreTestSuite) TestGetMissingKey() {
	_, err := s.store.Get(s.ctx, "chef_ai_ratings")
	s.ErrorIs(err, outbound.ErrKeyNotFound)
}

func (s *KVStoreTestSuite) TestSetOverwrites() {
	s.Require().NoError(s.store.Set(s.ctx, "chef_ai_current_user_email", []byte("a@b.com")))
	s.Require().NoError(s.store.Set(s.ctx, "chef_ai_current_user_email", []byte("c@d.com")))

	value, err := s.store.Get(s.ctx, "chef_ai_current_user_email")
	s.Require().NoError(err)
	s.Equal("c@d.com", string(value))
}

func (s *KVStoreTestSuite) TestDelete() {
	s.Require().NoError(s.store.Set(s.ctx, "k", []byte(`{"version":1}`)))
	s.Require().NoError(s.store.Delete(s.ctx, "k"))
	s.NoError(s.store.Delete(s.ctx, "k"))

	_, err := s.store.Get(s.ctx, "k")
	s.ErrorIs(err, outbound.ErrKeyNotFound)
}

func (s *KVStoreTestSuite) TestSurvivesReopen() {
	s.Require().NoError(s.store.Set(s.ctx, "chef_ai_recipes_a@b.com", []byte(`{"version":1,"recipes":[]}`)))
	s.Require().NoError(s.store.Close())

	s.store = s.open()
	value, err := s.store.Get(s.ctx, "chef_ai_recipes_a@b.com")
	s.Require().NoError(err)
	s.JSONEq(`{"version":1,"recipes":[]}`, string(value))
}

func TestKVStoreTestSuite(t *testing.T) {
	suite.Run(t, new(KVStoreTestSuite))
}

func TestSetupDatabase_InMemory(t *testing.T) {
	db, err := SetupDatabase("", logger.Silent)
	require.NoError(t, err)

	store := NewKVStore(db, zaptest.NewLogger(t))
	defer store.Close()

	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "k", []byte("v")))
	value, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", string(value))
}
