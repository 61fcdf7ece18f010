package processor

//go:generate go run go.uber.org/mock/mockgen@latest -source=processor.go -destination=mocks_test.go -package=processor

import (
	rediscache "callassist-server/internal/clients/redis"
	"callassist-server/internal/observability"
	"callassist-server/internal/store"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nyaruka/phonenumbers"
)

// AccountStore defines the database operations required by AccountProcessor
type AccountStore interface {
	GetAccountByPhoneNumber(ctx context.Context, phoneNumber string) (store.Account, error)
	GetAccountByID(ctx context.Context, accountID uuid.UUID) (store.Account, error)
	UpdateAccountPreferences(ctx context.Context, accountID uuid.UUID, params store.UpdatePreferencesParams) (store.Account, error)
}

// AccountCache is a read-through cache of accounts keyed by phone number
type AccountCache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) error
	SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

var (
	ErrInvalidPhoneNumber    = errors.New("invalid phone number")
	ErrUserNotFound          = errors.New("user not found")
	ErrInvalidResponseLength = errors.New("invalid response length")
)

type AccountProcessor struct {
	store         AccountStore
	cache         AccountCache
	logger        *observability.Logger
	defaultRegion string
	cacheTTL      time.Duration
}

// New creates an AccountProcessor. cache may be nil.
func New(store AccountStore, cache AccountCache, logger *observability.Logger, defaultRegion string, cacheTTL time.Duration) AccountProcessor {
	return AccountProcessor{
		store:         store,
		cache:         cache,
		logger:        logger,
		defaultRegion: defaultRegion,
		cacheTTL:      cacheTTL,
	}
}

// NormalizePhoneNumber returns the E.164 form of raw. Numbers without a country
// code are read in region.
func NormalizePhoneNumber(raw, region string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidPhoneNumber)
	}
	num, err := phonenumbers.Parse(raw, region)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidPhoneNumber, err)
	}
	if !phonenumbers.IsPossibleNumber(num) {
		return "", fmt.Errorf("%w: %s", ErrInvalidPhoneNumber, raw)
	}
	return phonenumbers.Format(num, phonenumbers.E164), nil
}

func cacheKey(phoneNumber string) string {
	return "account:phone:" + phoneNumber
}

// Resolve maps a caller's phone number to their account.
func (p *AccountProcessor) Resolve(ctx context.Context, phoneNumber string) (store.Account, error) {
	normalized, err := NormalizePhoneNumber(phoneNumber, p.defaultRegion)
	if err != nil {
		return store.Account{}, err
	}
	ctx = observability.WithFields(ctx, observability.Field{Key: "caller", Value: normalized})

	if p.cache != nil {
		var cached store.Account
		if err := p.cache.GetJSON(ctx, cacheKey(normalized), &cached); err == nil {
			return cached, nil
		} else if !errors.Is(err, rediscache.ErrCacheMiss) {
			p.logger.WarnWithError(ctx, "account cache read failed", err)
		}
	}

	account, err := p.store.GetAccountByPhoneNumber(ctx, normalized)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.Account{}, ErrUserNotFound
		}
		p.logger.Error(ctx, "failed to resolve account", err)
		return store.Account{}, fmt.Errorf("failed to resolve account: %w", err)
	}

	if p.cache != nil {
		if err := p.cache.SetJSON(ctx, cacheKey(normalized), account, p.cacheTTL); err != nil {
			p.logger.WarnWithError(ctx, "account cache write failed", err)
		}
	}
	return account, nil
}

func (p *AccountProcessor) GetAccount(ctx context.Context, accountID uuid.UUID) (store.Account, error) {
	account, err := p.store.GetAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.Account{}, ErrUserNotFound
		}
		p.logger.Error(ctx, "failed to get account", err)
		return store.Account{}, fmt.Errorf("failed to get account: %w", err)
	}
	return account, nil
}

// UpdatePreferencesRequest holds the preference fields a user may change
type UpdatePreferencesRequest struct {
	DisplayName        *string
	AIModel            *string
	Voice              *string
	ResponseLength     *string
	Language           *string
	CustomGreeting     *string
	CustomInstructions *string
}

// UpdatePreferences applies the given changes and drops the cached account.
func (p *AccountProcessor) UpdatePreferences(ctx context.Context, accountID uuid.UUID, req UpdatePreferencesRequest) (store.Account, error) {
	ctx = observability.WithFields(ctx, observability.Field{Key: "account_id", Value: accountID.String()})

	if req.ResponseLength != nil {
		switch *req.ResponseLength {
		case store.ResponseLengthShort, store.ResponseLengthMedium, store.ResponseLengthLong:
		default:
			return store.Account{}, ErrInvalidResponseLength
		}
	}

	account, err := p.store.UpdateAccountPreferences(ctx, accountID, store.UpdatePreferencesParams{
		DisplayName:        req.DisplayName,
		AIModel:            req.AIModel,
		Voice:              req.Voice,
		ResponseLength:     req.ResponseLength,
		Language:           req.Language,
		CustomGreeting:     req.CustomGreeting,
		CustomInstructions: req.CustomInstructions,
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.Account{}, ErrUserNotFound
		}
		p.logger.Error(ctx, "failed to update preferences", err)
		return store.Account{}, fmt.Errorf("failed to update preferences: %w", err)
	}

	if p.cache != nil {
		if err := p.cache.Del(ctx, cacheKey(account.PhoneNumber)); err != nil {
			p.logger.WarnWithError(ctx, "failed to invalidate account cache", err)
		}
	}
	return account, nil
}
