package application

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/oksasatya/blogsphere/internal/domain/entity"
	repo "github.com/oksasatya/blogsphere/internal/domain/repository"
)

// memDB backs every fake repository so joins and cascades behave like Postgres.
type memDB struct {
	mu       sync.Mutex
	seq      int
	clock    time.Time
	users    map[string]*entity.User
	blogs    map[string]*entity.Blog
	comments []entity.Comment
	likes    []entity.Like
	follows  []entity.Follow
	audit    []entity.AuditEntry
}

func newMemDB() *memDB {
	return &memDB{
		clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		users: map[string]*entity.User{},
		blogs: map[string]*entity.Blog{},
	}
}

func (db *memDB) nextID(prefix string) (string, time.Time) {
	db.seq++
	db.clock = db.clock.Add(time.Second)
	return fmt.Sprintf("%s-%d", prefix, db.seq), db.clock
}

func (db *memDB) author(userID string) entity.Author {
	if u, ok := db.users[userID]; ok {
		return u.Author()
	}
	return entity.Author{ID: userID}
}

func (db *memDB) withAuthor(b *entity.Blog) entity.BlogWithAuthor {
	return entity.BlogWithAuthor{
		ID: b.ID, Title: b.Title, Slug: b.Slug, Content: b.Content, FeatureImage: b.FeatureImage,
		Visits: b.Visits, CreatedAt: b.CreatedAt, UpdatedAt: b.UpdatedAt, Author: db.author(b.UserID),
	}
}

// userRepo

type userRepo struct{ db *memDB }

func (r userRepo) Create(_ context.Context, u *entity.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, o := range r.db.users {
		if o.Username == u.Username || o.Email == u.Email {
			return repo.ErrDuplicate
		}
	}
	u.ID, u.CreatedAt = r.db.nextID("user")
	u.UpdatedAt = u.CreatedAt
	cp := *u
	r.db.users[u.ID] = &cp
	return nil
}

func (r userRepo) find(match func(*entity.User) bool) (*entity.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, u := range r.db.users {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (r userRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.ID == id })
}

func (r userRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.Username == username })
}

func (r userRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.Email == email })
}

func (r userRepo) FindByUsernameOrEmail(_ context.Context, username, email string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.Username == username || u.Email == email })
}

func (r userRepo) Update(_ context.Context, u *entity.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.users[u.ID]; !ok {
		return repo.ErrNotFound
	}
	for _, o := range r.db.users {
		if o.ID != u.ID && (o.Username == u.Username || o.Email == u.Email) {
			return repo.ErrDuplicate
		}
	}
	cp := *u
	r.db.users[u.ID] = &cp
	return nil
}

func (r userRepo) UpdatePassword(_ context.Context, id, hash string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	u, ok := r.db.users[id]
	if !ok {
		return repo.ErrNotFound
	}
	u.Password = hash
	return nil
}

type auditRepo struct{ db *memDB }

func (r auditRepo) Insert(_ context.Context, e entity.AuditEntry) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.audit = append(r.db.audit, e)
	return nil
}

// blogRepo

type blogRepo struct {
	db        *memDB
	deleteErr error
}

func (r *blogRepo) Create(_ context.Context, b *entity.Blog) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, o := range r.db.blogs {
		if o.Slug == b.Slug {
			return repo.ErrDuplicate
		}
	}
	if _, ok := r.db.users[b.UserID]; !ok {
		return repo.ErrNotFound
	}
	b.ID, b.CreatedAt = r.db.nextID("blog")
	b.UpdatedAt = b.CreatedAt
	cp := *b
	r.db.blogs[b.ID] = &cp
	return nil
}

func (r *blogRepo) find(match func(*entity.Blog) bool) (*entity.Blog, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, b := range r.db.blogs {
		if match(b) {
			cp := *b
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (r *blogRepo) GetByID(_ context.Context, id string) (*entity.Blog, error) {
	return r.find(func(b *entity.Blog) bool { return b.ID == id })
}

func (r *blogRepo) GetBySlug(_ context.Context, slug string) (*entity.Blog, error) {
	return r.find(func(b *entity.Blog) bool { return b.Slug == slug })
}

func (r *blogRepo) GetWithAuthorBySlug(ctx context.Context, slug string) (*entity.BlogWithAuthor, error) {
	b, err := r.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := r.db.withAuthor(b)
	return &out, nil
}

func (r *blogRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	_, err := r.GetBySlug(ctx, slug)
	if errors.Is(err, repo.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (r *blogRepo) list(match func(*entity.Blog) bool) []entity.BlogWithAuthor {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []entity.BlogWithAuthor{}
	for _, b := range r.db.blogs {
		if match(b) {
			out = append(out, r.db.withAuthor(b))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *blogRepo) ListWithAuthor(context.Context) ([]entity.BlogWithAuthor, error) {
	return r.list(func(*entity.Blog) bool { return true }), nil
}

func (r *blogRepo) ListByUsername(_ context.Context, username string) ([]entity.BlogWithAuthor, error) {
	return r.list(func(b *entity.Blog) bool {
		u, ok := r.db.users[b.UserID]
		return ok && u.Username == username
	}), nil
}

func (r *blogRepo) Search(_ context.Context, q string) ([]entity.BlogWithAuthor, error) {
	q = strings.ToLower(q)
	return r.list(func(b *entity.Blog) bool {
		return strings.Contains(strings.ToLower(b.Title), q) || strings.Contains(strings.ToLower(b.Content), q)
	}), nil
}

func (r *blogRepo) CountByUser(_ context.Context, userID string) (int64, error) {
	return int64(len(r.list(func(b *entity.Blog) bool { return b.UserID == userID }))), nil
}

func (r *blogRepo) Update(_ context.Context, b *entity.Blog) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.blogs[b.ID]; !ok {
		return repo.ErrNotFound
	}
	for _, o := range r.db.blogs {
		if o.ID != b.ID && o.Slug == b.Slug {
			return repo.ErrDuplicate
		}
	}
	cp := *b
	r.db.blogs[b.ID] = &cp
	return nil
}

func (r *blogRepo) IncrementVisits(_ context.Context, id string) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	b, ok := r.db.blogs[id]
	if !ok {
		return 0, repo.ErrNotFound
	}
	b.Visits++
	return b.Visits, nil
}

func (r *blogRepo) DeleteCascade(_ context.Context, id string) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.blogs[id]; !ok {
		return repo.ErrNotFound
	}
	delete(r.db.blogs, id)
	comments := r.db.comments[:0]
	for _, c := range r.db.comments {
		if c.BlogID != id {
			comments = append(comments, c)
		}
	}
	r.db.comments = comments
	likes := r.db.likes[:0]
	for _, l := range r.db.likes {
		if l.BlogID != id {
			likes = append(likes, l)
		}
	}
	r.db.likes = likes
	return nil
}

// commentRepo

type commentRepo struct{ db *memDB }

func (r commentRepo) Create(_ context.Context, c *entity.Comment) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.blogs[c.BlogID]; !ok {
		return repo.ErrNotFound
	}
	c.ID, c.CreatedAt = r.db.nextID("comment")
	c.UpdatedAt = c.CreatedAt
	r.db.comments = append(r.db.comments, *c)
	return nil
}

func (r commentRepo) ListByBlog(_ context.Context, blogID string) ([]entity.CommentWithAuthor, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []entity.CommentWithAuthor{}
	for _, c := range r.db.comments {
		if c.BlogID == blogID {
			out = append(out, entity.CommentWithAuthor{Comment: c, Author: r.db.author(c.UserID)})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r commentRepo) CountByBlog(ctx context.Context, blogID string) (int64, error) {
	out, _ := r.ListByBlog(ctx, blogID)
	return int64(len(out)), nil
}

// likeRepo

type likeRepo struct{ db *memDB }

func (r likeRepo) Create(_ context.Context, l *entity.Like) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, o := range r.db.likes {
		if o.UserID == l.UserID && o.BlogID == l.BlogID {
			return repo.ErrDuplicate
		}
	}
	l.ID, l.CreatedAt = r.db.nextID("like")
	l.UpdatedAt = l.CreatedAt
	r.db.likes = append(r.db.likes, *l)
	return nil
}

func (r likeRepo) Exists(_ context.Context, userID, blogID string) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, o := range r.db.likes {
		if o.UserID == userID && o.BlogID == blogID {
			return true, nil
		}
	}
	return false, nil
}

func (r likeRepo) Delete(_ context.Context, userID, blogID string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for i, o := range r.db.likes {
		if o.UserID == userID && o.BlogID == blogID {
			r.db.likes = append(r.db.likes[:i], r.db.likes[i+1:]...)
			return nil
		}
	}
	return repo.ErrNotFound
}

func (r likeRepo) CountByBlog(_ context.Context, blogID string) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var n int64
	for _, o := range r.db.likes {
		if o.BlogID == blogID {
			n++
		}
	}
	return n, nil
}

// followRepo

type followRepo struct{ db *memDB }

func (r followRepo) Create(_ context.Context, f *entity.Follow) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if f.Follower == f.Following {
		return repo.ErrCheck
	}
	for _, o := range r.db.follows {
		if o.Follower == f.Follower && o.Following == f.Following {
			return repo.ErrDuplicate
		}
	}
	f.ID, f.CreatedAt = r.db.nextID("follow")
	f.UpdatedAt = f.CreatedAt
	r.db.follows = append(r.db.follows, *f)
	return nil
}

func (r followRepo) Exists(_ context.Context, follower, following string) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, o := range r.db.follows {
		if o.Follower == follower && o.Following == following {
			return true, nil
		}
	}
	return false, nil
}

func (r followRepo) Delete(_ context.Context, follower, following string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for i, o := range r.db.follows {
		if o.Follower == follower && o.Following == following {
			r.db.follows = append(r.db.follows[:i], r.db.follows[i+1:]...)
			return nil
		}
	}
	return repo.ErrNotFound
}

func (r followRepo) count(match func(entity.Follow) bool) int64 {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var n int64
	for _, o := range r.db.follows {
		if match(o) {
			n++
		}
	}
	return n
}

func (r followRepo) CountFollowers(_ context.Context, userID string) (int64, error) {
	return r.count(func(f entity.Follow) bool { return f.Following == userID }), nil
}

func (r followRepo) CountFollowing(_ context.Context, userID string) (int64, error) {
	return r.count(func(f entity.Follow) bool { return f.Follower == userID }), nil
}

// adapters

const memStoreBase = "https://img.test/"

type memStore struct {
	mu        sync.Mutex
	objects   map[string][]byte
	uploadErr error
	deleteErr error
	deleted   []string
}

func newMemStore() *memStore { return &memStore{objects: map[string][]byte{}} }

func (s *memStore) Upload(_ context.Context, folder string, r io.Reader, filename, _ string) (string, error) {
	if s.uploadErr != nil {
		return "", s.uploadErr
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	url := memStoreBase + folder + "/" + filename
	s.objects[url] = b
	return url, nil
}

func (s *memStore) Delete(_ context.Context, url string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, url)
	s.deleted = append(s.deleted, url)
	return nil
}

func (s *memStore) Owns(url string) bool { return strings.HasPrefix(url, memStoreBase) }

func (s *memStore) has(url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[url]
	return ok
}

type fakeGenerator struct {
	prompt string
	err    error
}

func (g *fakeGenerator) Generate(_ context.Context, prompt string) ([]byte, string, error) {
	g.prompt = prompt
	if g.err != nil {
		return nil, "", g.err
	}
	return []byte("\x89PNG"), "image/png", nil
}

type fakePublisher struct {
	mu   sync.Mutex
	jobs []any
}

func (p *fakePublisher) PublishJSON(_ context.Context, body any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.jobs = append(p.jobs, body)
	return nil
}

type fakeResets struct {
	tokens map[string]string
}

func newFakeResets() *fakeResets { return &fakeResets{tokens: map[string]string{}} }

func (f *fakeResets) Save(_ context.Context, token, userID string) error {
	f.tokens[token] = userID
	return nil
}

func (f *fakeResets) Consume(_ context.Context, token string) (string, error) {
	uid := f.tokens[token]
	delete(f.tokens, token)
	return uid, nil
}

type fakeIndex struct {
	docs map[string]entity.Author
}

func (x *fakeIndex) Index(_ context.Context, u *entity.User) error {
	if x.docs == nil {
		x.docs = map[string]entity.Author{}
	}
	x.docs[u.ID] = u.Author()
	return nil
}

func (x *fakeIndex) Search(_ context.Context, q string, _ int) ([]entity.Author, error) {
	out := []entity.Author{}
	for _, a := range x.docs {
		if strings.HasPrefix(a.Username, strings.ToLower(q)) {
			out = append(out, a)
		}
	}
	return out, nil
}

func pngFile(name string) *ImageFile {
	data := []byte("\x89PNG\r\n\x1a\nfake")
	return &ImageFile{Reader: bytes.NewReader(data), Filename: name, ContentType: "image/png", Size: int64(len(data))}
}
