package waveform_test

import (
	"context"
	"sync"

	"github.com/waveform-audio/waveform-go/pkg/waveform"
)

// In-memory capability fakes shared by the facade tests. They record every
// call so tests can assert on ordering and absence of calls.

type fakeStorage struct {
	mu      sync.Mutex
	uploads []waveform.UploadFileRequest
	edits   []waveform.EditFileRequest

	uploadFunc func(req waveform.UploadFileRequest) (*waveform.UploadResult, error)
	editFunc   func(req waveform.EditFileRequest) (*waveform.UploadResult, error)
}

func defaultUploadResult() *waveform.UploadResult {
	return &waveform.UploadResult{
		ID:      "a",
		Status:  "done",
		Results: map[string]string{"320": "a"},
		Probe:   &waveform.ProbeInfo{Format: waveform.ProbeFormat{Duration: "10"}},
	}
}

func (s *fakeStorage) UploadFile(ctx context.Context, req waveform.UploadFileRequest) (*waveform.UploadResult, error) {
	s.mu.Lock()
	s.uploads = append(s.uploads, req)
	s.mu.Unlock()
	if s.uploadFunc != nil {
		return s.uploadFunc(req)
	}
	return defaultUploadResult(), nil
}

func (s *fakeStorage) EditFile(ctx context.Context, req waveform.EditFileRequest) (*waveform.UploadResult, error) {
	s.mu.Lock()
	s.edits = append(s.edits, req)
	s.mu.Unlock()
	if s.editFunc != nil {
		return s.editFunc(req)
	}
	return defaultUploadResult(), nil
}

func (s *fakeStorage) uploadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.uploads)
}

type fakeEntityManager struct {
	mu     sync.Mutex
	writes []waveform.ManageEntityRequest

	manageFunc func(req waveform.ManageEntityRequest) (*waveform.ManageEntityResult, error)
	block      waveform.Block
}

func (m *fakeEntityManager) ManageEntity(ctx context.Context, req waveform.ManageEntityRequest) (*waveform.ManageEntityResult, error) {
	m.mu.Lock()
	m.writes = append(m.writes, req)
	m.mu.Unlock()
	if m.manageFunc != nil {
		return m.manageFunc(req)
	}
	return &waveform.ManageEntityResult{
		TxReceipt:    waveform.TxReceipt{BlockHash: "a", BlockNumber: 1},
		Confirmation: waveform.ConfirmationConfirmed,
	}, nil
}

func (m *fakeEntityManager) GetCurrentBlock(ctx context.Context) (*waveform.Block, error) {
	if m.block.Height == 0 {
		return &waveform.Block{Height: 1, Timestamp: 1690000000}, nil
	}
	block := m.block
	return &block, nil
}

func (m *fakeEntityManager) writeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.writes)
}

func (m *fakeEntityManager) lastWrite() waveform.ManageEntityRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes[len(m.writes)-1]
}

type fakeCatalog struct {
	mu        sync.Mutex
	nextID    int64
	playlists map[int64]*waveform.Playlist
	tracks    map[int64]*waveform.Track
	getCalls  int
}

func (c *fakeCatalog) GetTrack(ctx context.Context, trackID int64) (*waveform.Track, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.getCalls++
	track, ok := c.tracks[trackID]
	if !ok {
		return nil, waveform.ErrNotFound
	}
	return track, nil
}

func (c *fakeCatalog) GetPlaylist(ctx context.Context, userID, playlistID int64) (*waveform.Playlist, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.getCalls++
	playlist, ok := c.playlists[playlistID]
	if !ok {
		return nil, waveform.ErrNotFound
	}
	return playlist, nil
}

func (c *fakeCatalog) GetUnclaimedID(ctx context.Context, kind string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextID++
	return c.nextID, nil
}

type fakeAuth struct {
	failSign bool
}

func (a *fakeAuth) Sign(ctx context.Context, payload []byte) ([]byte, error) {
	if a.failSign {
		return nil, context.DeadlineExceeded
	}
	return []byte("signature"), nil
}

func (a *fakeAuth) SignTransaction(ctx context.Context, payload []byte) ([]byte, error) {
	return a.Sign(ctx, payload)
}

func (a *fakeAuth) GetSharedSecret(ctx context.Context, publicKey []byte) ([]byte, error) {
	return []byte("shared"), nil
}

func (a *fakeAuth) GetAddress(ctx context.Context) (string, error) {
	return "0xfake", nil
}

type clientFixture struct {
	client        *waveform.Client
	storage       *fakeStorage
	entityManager *fakeEntityManager
	catalog       *fakeCatalog
	auth          *fakeAuth
}

func newClientFixture(t testingT) *clientFixture {
	f := &clientFixture{
		storage:       &fakeStorage{},
		entityManager: &fakeEntityManager{},
		catalog:       &fakeCatalog{playlists: map[int64]*waveform.Playlist{}, tracks: map[int64]*waveform.Track{}},
		auth:          &fakeAuth{},
	}
	client, err := waveform.New(
		waveform.WithStorage(f.storage),
		waveform.WithEntityManager(f.entityManager),
		waveform.WithCatalog(f.catalog),
		waveform.WithAuth(f.auth),
	)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	f.client = client
	return f
}

type testingT interface {
	Fatalf(format string, args ...any)
}
