// Package event はチャットイベントを待ち合わせるための仕組みを提供する
package event

import (
	"context"
	"sync"

	"github.com/StephanAkkerman/Issue-Bot/internal/domain"
)

type waiter[T any] struct {
	match func(T) bool
	ch    chan T
}

type waitList[T any] struct {
	mu      sync.Mutex
	waiters []*waiter[T]
}

func (l *waitList[T]) add(match func(T) bool) *waiter[T] {
	w := &waiter[T]{match: match, ch: make(chan T, 1)}
	l.mu.Lock()
	l.waiters = append(l.waiters, w)
	l.mu.Unlock()
	return w
}

func (l *waitList[T]) remove(w *waiter[T]) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, x := range l.waiters {
		if x == w {
			l.waiters = append(l.waiters[:i], l.waiters[i+1:]...)
			return
		}
	}
}

// publish は一致したすべての待機者に配信し、それらを一覧から外す
func (l *waitList[T]) publish(v T) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	delivered := 0
	kept := l.waiters[:0]
	for _, w := range l.waiters {
		if w.match(v) {
			w.ch <- v
			delivered++
			continue
		}
		kept = append(kept, w)
	}
	for i := len(kept); i < len(l.waiters); i++ {
		l.waiters[i] = nil
	}
	l.waiters = kept

	return delivered
}

func (l *waitList[T]) len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.waiters)
}

// Waiter は登録済みの待機
// 登録後に配信されたものはWaitを呼ぶ前でも受け取れる
type Waiter[T any] struct {
	list *waitList[T]
	w    *waiter[T]
}

func expect[T any](l *waitList[T], match func(T) bool) *Waiter[T] {
	return &Waiter[T]{list: l, w: l.add(match)}
}

// Wait は一致するものが届くかctxが終わるまで待つ
func (x *Waiter[T]) Wait(ctx context.Context) (T, error) {
	select {
	case v := <-x.w.ch:
		return v, nil
	case <-ctx.Done():
		x.Stop()
		// 削除の直前に配信されていた場合はそれを返す
		select {
		case v := <-x.w.ch:
			return v, nil
		default:
		}
		var zero T
		return zero, ctx.Err()
	}
}

// Stop は待機を取り消す。配信済みなら何もしない
func (x *Waiter[T]) Stop() {
	x.list.remove(x.w)
}

// Hub はメッセージとリアクションのイベントを待機者に配信する
// ゼロ値でそのまま使える
type Hub struct {
	messages  waitList[*domain.Message]
	reactions waitList[*domain.ReactionEvent]
}

// NewHub は新しいHubを作成する
func NewHub() *Hub {
	return &Hub{}
}

// NextMessage は条件に一致する次のメッセージを待つ
func (h *Hub) NextMessage(ctx context.Context, match func(*domain.Message) bool) (*domain.Message, error) {
	return expect(&h.messages, match).Wait(ctx)
}

// NextReaction は条件に一致する次のリアクションを待つ
func (h *Hub) NextReaction(ctx context.Context, match func(*domain.ReactionEvent) bool) (*domain.ReactionEvent, error) {
	return expect(&h.reactions, match).Wait(ctx)
}

// ExpectReaction はリアクション待ちを登録して返す
func (h *Hub) ExpectReaction(match func(*domain.ReactionEvent) bool) domain.ReactionWaiter {
	return expect(&h.reactions, match)
}

// PublishMessage はメッセージを配信し、受け取った待機者の数を返す
func (h *Hub) PublishMessage(msg *domain.Message) int {
	return h.messages.publish(msg)
}

// PublishReaction はリアクションを配信し、受け取った待機者の数を返す
func (h *Hub) PublishReaction(ev *domain.ReactionEvent) int {
	return h.reactions.publish(ev)
}

// Pending は待機中のメッセージ待ちとリアクション待ちの数を返す
func (h *Hub) Pending() (messages, reactions int) {
	return h.messages.len(), h.reactions.len()
}
