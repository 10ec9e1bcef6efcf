package session

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/dmorgan81/imagedesk/internal/image"
	"github.com/dmorgan81/imagedesk/internal/log"
	"github.com/dmorgan81/imagedesk/internal/prompt"
	"github.com/samber/do"
	"golang.org/x/sync/semaphore"
)

var ErrBusy = errors.New("an image is already being generated")

// Session runs at most one generation at a time and owns the busy flag and
// the last result. Subscribers observe every state change.
type Session struct {
	generator image.Generator
	timeout   time.Duration
	now       func() time.Time

	gate *semaphore.Weighted

	mu     sync.Mutex
	state  State
	result *Result
	task   *Task
	subs   map[int]chan State
	nextID int
}

func New(generator image.Generator) *Session {
	return &Session{
		generator: generator,
		timeout:   image.Timeout,
		now:       time.Now,
		gate:      semaphore.NewWeighted(1),
		subs:      make(map[int]chan State),
	}
}

func NewSession(i *do.Injector) (*Session, error) {
	return New(do.MustInvoke[image.Generator](i)), nil
}

// Generate starts req on a worker goroutine. It returns ErrBusy without
// touching any state while another generation is in flight.
func (s *Session) Generate(ctx context.Context, req prompt.Request) (*Task, error) {
	if !s.gate.TryAcquire(1) {
		return nil, ErrBusy
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	task := newTask(cancel)

	s.mu.Lock()
	s.task = task
	s.state.Busy = true
	s.state.Message = "Generating image, please wait..."
	s.state.Level = LevelInfo
	s.publishLocked()
	s.mu.Unlock()

	go s.run(ctx, task, req)
	return task, nil
}

func (s *Session) run(ctx context.Context, task *Task, req prompt.Request) {
	log := log.FromContextOrDiscard(ctx).WithGroup("session").With("style", req.Style, "quality", req.Quality)
	log.Info("generation started")

	var (
		res *Result
		err error
	)
	defer func() {
		if r := recover(); r != nil {
			log.Error("generation panicked", "panic", r)
			res, err = nil, errors.New("generation failed unexpectedly")
		}
		s.complete(res, err)
		s.gate.Release(1)
		task.finish(err)
	}()

	data, seed, err := s.generator.Generate(ctx, req.Params())
	if err != nil {
		log.Warn("generation failed", "error", err)
		return
	}
	res = &Result{
		Data:        data,
		ContentType: http.DetectContentType(data),
		Seed:        seed,
		Request:     req,
		CreatedAt:   s.now(),
	}
	log.Info("generation finished", "bytes", len(data), "seed", seed)
}

// complete clears the busy flag and records the outcome in one transition.
func (s *Session) complete(res *Result, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err == nil && res != nil {
		s.result = res
		s.state.Message = "Image generated"
		s.state.Level = LevelInfo
	} else {
		s.state.Message = err.Error()
		s.state.Level = LevelError
	}
	s.state.Busy = false
	s.state.HasResult = s.result != nil
	s.task = nil
	s.publishLocked()
}

// Result returns a copy of the last successful result.
func (s *Session) Result() (Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil {
		return Result{}, false
	}
	return *s.result, true
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Notify publishes a message without changing busy or result.
func (s *Session) Notify(level Level, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Message = message
	s.state.Level = level
	s.publishLocked()
}

// Subscribe returns a channel that receives the current state immediately and
// then every later state. A slow reader only ever misses intermediate states.
func (s *Session) Subscribe() (<-chan State, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	ch := make(chan State, 1)
	ch <- s.state
	s.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subs, id)
			close(ch)
		})
	}
}

func (s *Session) publishLocked() {
	s.state.Version++
	for _, ch := range s.subs {
		select {
		case ch <- s.state:
			continue
		default:
		}
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- s.state:
		default:
		}
	}
}

// Close cancels any in-flight generation and waits for it to terminate.
func (s *Session) Close() error {
	s.mu.Lock()
	task := s.task
	s.mu.Unlock()

	if task != nil {
		task.Cancel()
		<-task.Done()
	}
	return nil
}

func (s *Session) Shutdown() error {
	return s.Close()
}
