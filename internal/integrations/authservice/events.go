package authservice

import "sync"

// Listener получает уведомления об изменении состояния аутентификации
// session равна nil для EventSignedOut
type Listener func(event Event, session *Session)

// Subscription хэндл подписки на события
type Subscription struct {
	once        sync.Once
	unsubscribe func()
}

// Unsubscribe отменяет подписку; повторный вызов ничего не делает
func (s *Subscription) Unsubscribe() {
	s.once.Do(s.unsubscribe)
}

type listeners struct {
	mu     sync.RWMutex
	nextID int
	items  map[int]Listener
}

func (l *listeners) add(fn Listener) *Subscription {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.items == nil {
		l.items = make(map[int]Listener)
	}
	id := l.nextID
	l.nextID++
	l.items[id] = fn

	return &Subscription{unsubscribe: func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.items, id)
	}}
}

// emit вызывает слушателей вне блокировки, чтобы слушатель мог отписаться из колбэка
func (l *listeners) emit(event Event, session *Session) {
	l.mu.RLock()
	snapshot := make([]Listener, 0, len(l.items))
	for _, fn := range l.items {
		snapshot = append(snapshot, fn)
	}
	l.mu.RUnlock()

	for _, fn := range snapshot {
		fn(event, session)
	}
}
