package service

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/vidvault/video-vault/internal/core/domain"
)

// Map-backed stand-ins for the Mongo repositories. They clone on the way in
// and out so tests cannot observe shared mutable state.

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func cloneCode(c *domain.AccessCode) *domain.AccessCode {
	if c == nil {
		return nil
	}
	clone := *c
	return &clone
}

func cloneVideo(v *domain.Video) *domain.Video {
	if v == nil {
		return nil
	}
	clone := *v
	return &clone
}

type stubUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
	seq   int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	copy := cloneUser(user)
	if copy.ID == "" {
		r.seq++
		copy.ID = fmt.Sprintf("user-%d", r.seq)
	}
	if copy.Email != "" {
		for _, u := range r.users {
			if u.Email == copy.Email {
				return nil, domain.ErrUserExists
			}
		}
	}
	r.users[copy.ID] = cloneUser(copy)
	return copy, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindAllWithPassword(_ context.Context) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.User
	for _, u := range r.users {
		if u.PasswordHash != "" {
			out = append(out, cloneUser(u))
		}
	}
	return out, nil
}

func (r *stubUserRepo) FindAll(_ context.Context) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.User
	for _, u := range r.users {
		out = append(out, cloneUser(u))
	}
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return nil, domain.ErrUserNotFound
	}
	r.users[user.ID] = cloneUser(user)
	return cloneUser(user), nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

type stubCodeRepo struct {
	mu    sync.Mutex
	codes map[string]*domain.AccessCode
	seq   int
}

func newStubCodeRepo() *stubCodeRepo {
	return &stubCodeRepo{codes: make(map[string]*domain.AccessCode)}
}

func (r *stubCodeRepo) add(c *domain.AccessCode) *domain.AccessCode {
	r.mu.Lock()
	defer r.mu.Unlock()
	copy := cloneCode(c)
	if copy.ID == "" {
		r.seq++
		copy.ID = fmt.Sprintf("code-%d", r.seq)
	}
	r.codes[copy.ID] = cloneCode(copy)
	return copy
}

func (r *stubCodeRepo) FindByCode(_ context.Context, code string) (*domain.AccessCode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.codes {
		if c.Code == code {
			return cloneCode(c), nil
		}
	}
	return nil, domain.ErrAccessCodeNotFound
}

func (r *stubCodeRepo) FindByID(_ context.Context, id string) (*domain.AccessCode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.codes[id]
	if !ok {
		return nil, domain.ErrAccessCodeNotFound
	}
	return cloneCode(c), nil
}

func (r *stubCodeRepo) FindAll(_ context.Context) ([]*domain.AccessCode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.AccessCode
	for _, c := range r.codes {
		out = append(out, cloneCode(c))
	}
	return out, nil
}

func (r *stubCodeRepo) Create(_ context.Context, code *domain.AccessCode) (*domain.AccessCode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.codes {
		if c.Code == code.Code {
			return nil, domain.ErrAccessCodeExists
		}
	}
	copy := cloneCode(code)
	r.seq++
	copy.ID = fmt.Sprintf("code-%d", r.seq)
	r.codes[copy.ID] = cloneCode(copy)
	return copy, nil
}

func (r *stubCodeRepo) BindUser(_ context.Context, codeID, userID string) (*domain.AccessCode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.codes[codeID]
	if !ok {
		return nil, domain.ErrAccessCodeNotFound
	}
	if c.UserID == "" {
		c.UserID = userID
	}
	return cloneCode(c), nil
}

func (r *stubCodeRepo) Deactivate(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.codes[id]
	if !ok {
		return domain.ErrAccessCodeNotFound
	}
	c.IsActive = false
	return nil
}

func (r *stubCodeRepo) Upsert(_ context.Context, code *domain.AccessCode) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.codes {
		if c.Code == code.Code {
			return nil
		}
	}
	copy := cloneCode(code)
	r.seq++
	copy.ID = fmt.Sprintf("code-%d", r.seq)
	r.codes[copy.ID] = copy
	return nil
}

func (r *stubCodeRepo) CountActive(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, c := range r.codes {
		if c.IsActive {
			n++
		}
	}
	return n, nil
}

func (r *stubCodeRepo) CountByUser(_ context.Context, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, c := range r.codes {
		if c.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (r *stubCodeRepo) UnbindUser(_ context.Context, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, c := range r.codes {
		if c.UserID == userID {
			c.UserID = ""
			n++
		}
	}
	return n, nil
}

type stubVideoRepo struct {
	mu     sync.Mutex
	videos map[string]*domain.Video
	seq    int

	createErr error
}

func newStubVideoRepo() *stubVideoRepo {
	return &stubVideoRepo{videos: make(map[string]*domain.Video)}
}

func (r *stubVideoRepo) Create(_ context.Context, video *domain.Video) (*domain.Video, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	copy := cloneVideo(video)
	r.seq++
	copy.ID = fmt.Sprintf("video-%d", r.seq)
	r.videos[copy.ID] = cloneVideo(copy)
	return copy, nil
}

func (r *stubVideoRepo) FindByID(_ context.Context, id string) (*domain.Video, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.videos[id]
	if !ok {
		return nil, domain.ErrVideoNotFound
	}
	return cloneVideo(v), nil
}

func (r *stubVideoRepo) FindAll(_ context.Context) ([]*domain.Video, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Video
	for _, v := range r.videos {
		out = append(out, cloneVideo(v))
	}
	return out, nil
}

func (r *stubVideoRepo) FindPublished(_ context.Context) ([]*domain.Video, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Video
	for _, v := range r.videos {
		if v.IsPublished {
			out = append(out, cloneVideo(v))
		}
	}
	return out, nil
}

func (r *stubVideoRepo) Update(_ context.Context, video *domain.Video) (*domain.Video, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.videos[video.ID]; !ok {
		return nil, domain.ErrVideoNotFound
	}
	r.videos[video.ID] = cloneVideo(video)
	return cloneVideo(video), nil
}

func (r *stubVideoRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.videos[id]; !ok {
		return domain.ErrVideoNotFound
	}
	delete(r.videos, id)
	return nil
}

func (r *stubVideoRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.videos)), nil
}

func (r *stubVideoRepo) CountByUploader(_ context.Context, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, v := range r.videos {
		if v.UploadedByID == userID {
			n++
		}
	}
	return n, nil
}

func (r *stubVideoRepo) DeleteByUploader(_ context.Context, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, v := range r.videos {
		if v.UploadedByID == userID {
			delete(r.videos, id)
			n++
		}
	}
	return n, nil
}

func (r *stubVideoRepo) TotalSize(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var total int64
	for _, v := range r.videos {
		total += v.Size
	}
	return total, nil
}

type stubActivityRepo struct {
	mu      sync.Mutex
	entries []*domain.ActivityEntry
}

func newStubActivityRepo() *stubActivityRepo {
	return &stubActivityRepo{}
}

func (r *stubActivityRepo) Insert(_ context.Context, entry *domain.ActivityEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *entry
	r.entries = append(r.entries, &clone)
	return nil
}

func (r *stubActivityRepo) FindRecent(_ context.Context, limit int) ([]*domain.ActivityEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.ActivityEntry, 0, limit)
	for i := len(r.entries) - 1; i >= 0 && len(out) < limit; i-- {
		clone := *r.entries[i]
		out = append(out, &clone)
	}
	return out, nil
}

func (r *stubActivityRepo) actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.Action)
	}
	return out
}

func (r *stubActivityRepo) hasActionFor(action, userID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.entries {
		if e.Action == action && e.UserID == userID {
			return true
		}
	}
	return false
}

func (r *stubActivityRepo) hasAction(action string) bool {
	for _, a := range r.actions() {
		if a == action {
			return true
		}
	}
	return false
}

type stubBlobStore struct {
	mu      sync.Mutex
	objects map[string]int64

	uploadErr error
}

func newStubBlobStore() *stubBlobStore {
	return &stubBlobStore{objects: make(map[string]int64)}
}

func (s *stubBlobStore) Upload(_ context.Context, objectKey string, _ io.Reader, size int64, _ string) error {
	if s.uploadErr != nil {
		return s.uploadErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[objectKey] = size
	return nil
}

func (s *stubBlobStore) Delete(_ context.Context, objectKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, objectKey)
	return nil
}

func (s *stubBlobStore) PresignedURL(_ context.Context, objectKey string, _ time.Duration) (string, error) {
	return "https://blobs.local/" + objectKey + "?signed", nil
}

func (s *stubBlobStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}
