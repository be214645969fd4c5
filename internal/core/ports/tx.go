package ports

import "context"

// TxRunner frames a multi-write sequence as one atomic unit. The fork step
// of language reconciliation persists a new row and several projects; none
// of those writes may be observed without the others.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// LabelLocker serialises reconciliation per logical label. Acquire blocks
// (bounded by ctx) until the label lock is held and returns a fencing token
// that must be presented to Release.
type LabelLocker interface {
	Acquire(ctx context.Context, label string) (token string, err error)
	Release(ctx context.Context, label, token string) error
}
