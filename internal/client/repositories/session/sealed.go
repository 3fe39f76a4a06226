package session

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gatepass/internal/cryptox"
)

// SealedRepository encrypts values on the way in and decrypts them on the
// way out. Keys are stored in clear.
type SealedRepository struct {
	inner  Repository
	sealer *cryptox.Sealer
}

func NewSealedRepository(inner Repository, sealer *cryptox.Sealer) *SealedRepository {
	return &SealedRepository{inner: inner, sealer: sealer}
}

func (r *SealedRepository) Get(ctx context.Context, key string) ([]byte, error) {
	sealed, err := r.inner.Get(ctx, key)
	if err != nil || sealed == nil {
		return nil, err
	}
	plain, err := r.sealer.Open(sealed)
	if err != nil {
		return nil, fmt.Errorf("open session[%s]: %w", key, err)
	}
	return plain, nil
}

func (r *SealedRepository) Set(ctx context.Context, key string, value []byte) error {
	sealed, err := r.sealer.Seal(value)
	if err != nil {
		return fmt.Errorf("seal session[%s]: %w", key, err)
	}
	return r.inner.Set(ctx, key, sealed)
}

func (r *SealedRepository) SetMany(ctx context.Context, values map[string][]byte) error {
	sealed := make(map[string][]byte, len(values))
	for k, v := range values {
		s, err := r.sealer.Seal(v)
		if err != nil {
			return fmt.Errorf("seal session[%s]: %w", k, err)
		}
		sealed[k] = s
	}
	return r.inner.SetMany(ctx, sealed)
}

func (r *SealedRepository) Delete(ctx context.Context, key string) error {
	return r.inner.Delete(ctx, key)
}
