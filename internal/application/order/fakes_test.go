package order

import (
	"context"
	"errors"
	"sync"

	"github.com/xiebiao/shop/internal/domain/identifier"
	"github.com/xiebiao/shop/internal/domain/order"
	apperrors "github.com/xiebiao/shop/pkg/errors"
)

// memoryRepo 内存仓储，no/refund_no唯一
type memoryRepo struct {
	mu        sync.Mutex
	nextID    uint
	byNo      map[string]*order.Order
	refundNos map[string]bool
	createErr error
	creates   int
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{byNo: map[string]*order.Order{}, refundNos: map[string]bool{}}
}

func (r *memoryRepo) Create(ctx context.Context, o *order.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.creates++
	if r.createErr != nil {
		return r.createErr
	}
	if _, ok := r.byNo[o.No]; ok {
		return apperrors.WithCause(order.ErrOrderNoConflict, errors.New("Duplicate entry"))
	}
	r.nextID++
	o.ID = r.nextID
	saved := *o
	r.byNo[o.No] = &saved
	return nil
}

func (r *memoryRepo) FindByNo(ctx context.Context, no string) (*order.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.byNo[no]
	if !ok {
		return nil, order.ErrOrderNotFound
	}
	cp := *o
	return &cp, nil
}

func (r *memoryRepo) LockByNo(ctx context.Context, no string) (*order.Order, error) {
	return r.FindByNo(ctx, no)
}

func (r *memoryRepo) AssignRefundNo(ctx context.Context, id uint, refundNo string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.refundNos[refundNo] {
		return apperrors.WithCause(order.ErrRefundNoConflict, errors.New("Duplicate entry"))
	}
	for _, o := range r.byNo {
		if o.ID != id {
			continue
		}
		if o.RefundNo != "" {
			return order.ErrRefundNoAssigned
		}
		o.RefundNo = refundNo
		r.refundNos[refundNo] = true
		return nil
	}
	return order.ErrOrderNotFound
}

func (r *memoryRepo) Exists(ctx context.Context, field, value string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch field {
	case identifier.FieldOrderNo:
		_, ok := r.byNo[value]
		return ok, nil
	case identifier.FieldRefundNo:
		return r.refundNos[value], nil
	}
	return false, errors.New("unknown field")
}

// scriptedIssuer 按顺序返回预设号码，不查询唯一性（模拟检查与写入之间的竞争）
type scriptedIssuer struct {
	mu        sync.Mutex
	orderNos  []string
	refundNos []string
	err       error
	calls     int
}

func (s *scriptedIssuer) IssueOrderNumber(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	no := s.orderNos[0]
	if len(s.orderNos) > 1 {
		s.orderNos = s.orderNos[1:]
	}
	return no, nil
}

func (s *scriptedIssuer) IssueRefundToken(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	no := s.refundNos[0]
	if len(s.refundNos) > 1 {
		s.refundNos = s.refundNos[1:]
	}
	return no, nil
}

// memoryReserver 内存占位
type memoryReserver struct {
	mu       sync.Mutex
	reserved map[string]bool
	released []string
}

func newMemoryReserver() *memoryReserver {
	return &memoryReserver{reserved: map[string]bool{}}
}

func (m *memoryReserver) Reserve(ctx context.Context, field, candidate string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := field + ":" + candidate
	if m.reserved[key] {
		return false, nil
	}
	m.reserved[key] = true
	return true, nil
}

func (m *memoryReserver) Release(ctx context.Context, field, candidate string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := field + ":" + candidate
	delete(m.reserved, key)
	m.released = append(m.released, key)
	return nil
}

// directTx 直接执行，不开启事务
type directTx struct{ calls int }

func (d *directTx) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	d.calls++
	return fn(ctx)
}

// recordingPublisher 记录发布的事件
type recordingPublisher struct {
	mu     sync.Mutex
	keys   []string
	events []any
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, routingKey string, message any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.keys = append(p.keys, routingKey)
	p.events = append(p.events, message)
	return nil
}
