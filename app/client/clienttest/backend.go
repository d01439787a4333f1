// Package clienttest provides an in-memory posts backend for tests.
package clienttest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"time"

	"newsportal/app/models"

	"github.com/gorilla/mux"
)

type failure struct {
	status int
	body   string
}

// Backend mimics the posts REST API. Posts are kept newest first and every
// response uses the {success,data,message} envelope unless RawList is set.
type Backend struct {
	Server *httptest.Server

	// RawList makes GET /posts answer with a bare JSON array.
	RawList bool
	// PageSize enables pagination of GET /posts?page=N when positive.
	PageSize int

	mu     sync.Mutex
	posts  []models.Post
	nextID int
	calls  map[string]int
	fails  []failure
	delay  time.Duration
	gates  map[string]chan struct{}
}

func NewBackend() *Backend {
	b := &Backend{
		nextID: 1,
		calls:  make(map[string]int),
		gates:  make(map[string]chan struct{}),
	}

	router := mux.NewRouter()
	router.HandleFunc("/api/posts", b.list).Methods(http.MethodGet)
	router.HandleFunc("/api/posts", b.create).Methods(http.MethodPost)
	router.HandleFunc("/api/posts/{id}", b.get).Methods(http.MethodGet)
	router.HandleFunc("/api/posts/{id}", b.update).Methods(http.MethodPut)
	router.HandleFunc("/api/posts/{id}", b.remove).Methods(http.MethodDelete)

	b.Server = httptest.NewServer(b.intercept(router))
	return b
}

// BaseURL is the API root, the value api.base_url would hold.
func (b *Backend) BaseURL() string {
	return b.Server.URL + "/api"
}

func (b *Backend) Close() {
	b.Server.Close()
}

// Seed stores posts as if they had been created in order.
func (b *Backend) Seed(posts ...models.Post) []models.Post {
	b.mu.Lock()
	defer b.mu.Unlock()

	var out []models.Post
	for _, p := range posts {
		p.ID = b.nextID
		b.nextID++
		if p.CreatedAt == "" {
			p.CreatedAt = time.Now().UTC().Format(time.RFC3339)
		}
		p.UpdatedAt = p.CreatedAt
		b.posts = append([]models.Post{p}, b.posts...)
		out = append(out, p)
	}
	return out
}

// Posts returns a snapshot of the stored posts, newest first.
func (b *Backend) Posts() []models.Post {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]models.Post(nil), b.posts...)
}

// FailNext makes the next request answer with status and body instead of
// being served.
func (b *Backend) FailNext(status int, body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.fails = append(b.fails, failure{status: status, body: body})
}

// SetDelay slows every request down, which lets tests overlap calls.
func (b *Backend) SetDelay(d time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.delay = d
}

// Block holds every request to key, keyed like Calls, until the returned
// func is called.
func (b *Backend) Block(key string) (release func()) {
	gate := make(chan struct{})
	b.mu.Lock()
	b.gates[key] = gate
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.gates, key)
			b.mu.Unlock()
			close(gate)
		})
	}
}

// Calls reports how many requests hit a route, keyed like "POST /posts".
func (b *Backend) Calls(key string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[key]
}

// TotalCalls reports the number of requests received.
func (b *Backend) TotalCalls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	total := 0
	for _, n := range b.calls {
		total += n
	}
	return total
}

func (b *Backend) intercept(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " /posts"
		if strings.HasPrefix(r.URL.Path, "/api/posts/") {
			key = r.Method + " /posts/{id}"
		}

		b.mu.Lock()
		b.calls[key]++
		delay := b.delay
		gate := b.gates[key]
		var f *failure
		if len(b.fails) > 0 {
			f = &b.fails[0]
			b.fails = b.fails[1:]
		}
		b.mu.Unlock()

		if gate != nil {
			<-gate
		}
		if delay > 0 {
			time.Sleep(delay)
		}
		if f != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(f.status)
			_, _ = w.Write([]byte(f.body))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (b *Backend) list(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	posts := append([]models.Post{}, b.posts...)
	b.mu.Unlock()

	if page, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && page > 0 && b.PageSize > 0 {
		start := (page - 1) * b.PageSize
		if start >= len(posts) {
			posts = []models.Post{}
		} else {
			end := start + b.PageSize
			if end > len(posts) {
				end = len(posts)
			}
			posts = posts[start:end]
		}
	}

	if b.RawList {
		writeJSON(w, http.StatusOK, posts)
		return
	}
	writeJSON(w, http.StatusOK, models.APIResponse[[]models.Post]{Success: true, Data: posts})
}

func (b *Backend) get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, p := range b.posts {
		if p.ID == id {
			writeJSON(w, http.StatusOK, models.APIResponse[models.Post]{Success: true, Data: p})
			return
		}
	}
	writeFailure(w, http.StatusNotFound, "Berita tidak ditemukan")
}

func (b *Backend) create(w http.ResponseWriter, r *http.Request) {
	title, content, cover, ok := parseForm(w, r)
	if !ok {
		return
	}

	b.mu.Lock()
	now := time.Now().UTC().Format(time.RFC3339)
	post := models.Post{
		ID:         b.nextID,
		Title:      title,
		Content:    content,
		CoverImage: cover,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	b.nextID++
	b.posts = append([]models.Post{post}, b.posts...)
	b.mu.Unlock()

	writeJSON(w, http.StatusCreated, models.APIResponse[models.Post]{Success: true, Data: post})
}

func (b *Backend) update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	title, content, cover, ok := parseForm(w, r)
	if !ok {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for i, p := range b.posts {
		if p.ID != id {
			continue
		}
		p.Title = title
		p.Content = content
		if cover != "" {
			p.CoverImage = cover
		}
		p.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
		b.posts[i] = p
		writeJSON(w, http.StatusOK, models.APIResponse[models.Post]{Success: true, Data: p})
		return
	}
	writeFailure(w, http.StatusNotFound, "Berita tidak ditemukan")
}

func (b *Backend) remove(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for i, p := range b.posts {
		if p.ID == id {
			b.posts = append(b.posts[:i], b.posts[i+1:]...)
			writeJSON(w, http.StatusOK, models.APIResponse[any]{Success: true, Message: "Berita dihapus"})
			return
		}
	}
	writeFailure(w, http.StatusNotFound, "Berita tidak ditemukan")
}

func parseID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeFailure(w, http.StatusBadRequest, "ID tidak valid")
		return 0, false
	}
	return id, true
}

func parseForm(w http.ResponseWriter, r *http.Request) (title, content, cover string, ok bool) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		writeFailure(w, http.StatusBadRequest, "Form tidak valid")
		return "", "", "", false
	}
	title = r.FormValue("title")
	content = r.FormValue("content")
	if title == "" || content == "" {
		writeFailure(w, http.StatusBadRequest, "Judul dan konten wajib diisi")
		return "", "", "", false
	}
	if file, header, err := r.FormFile("coverImage"); err == nil {
		file.Close()
		cover = "/uploads/" + header.Filename
	}
	return title, content, cover, true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeFailure(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, models.APIResponse[any]{Success: false, Message: message})
}
