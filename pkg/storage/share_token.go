package storage

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	ErrInvalidToken = errors.New("invalid share token")
	ErrTokenExpired = errors.New("share token expired")
)

// ShareTokenSigner issues HMAC-signed tokens that grant read access to one saved schedule.
type ShareTokenSigner struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// ShareClaims is the payload carried by a share token.
type ShareClaims struct {
	ScheduleID string
	OwnerID    string
	ExpiresAt  time.Time
}

// NewShareTokenSigner constructs a signer; a non-positive ttl falls back to thirty days.
func NewShareTokenSigner(secret string, ttl time.Duration) *ShareTokenSigner {
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	return &ShareTokenSigner{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// TTL reports how long issued tokens stay valid.
func (s *ShareTokenSigner) TTL() time.Duration {
	return s.ttl
}

// Issue returns a token of the form scheduleID.expiry.owner.signature.
func (s *ShareTokenSigner) Issue(scheduleID, ownerID string) (string, time.Time, error) {
	if scheduleID == "" || ownerID == "" {
		return "", time.Time{}, fmt.Errorf("schedule id and owner id required")
	}
	if len(s.secret) == 0 {
		return "", time.Time{}, fmt.Errorf("signing secret missing")
	}
	expiresAt := s.now().Add(s.ttl).UTC().Truncate(time.Second)
	ts := strconv.FormatInt(expiresAt.Unix(), 10)
	owner := base64.RawURLEncoding.EncodeToString([]byte(ownerID))
	token := strings.Join([]string{scheduleID, ts, owner, s.sign(scheduleID, ts, owner)}, ".")
	return token, expiresAt, nil
}

// Verify checks the signature and expiry of a token.
func (s *ShareTokenSigner) Verify(token string) (ShareClaims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 4 || parts[0] == "" {
		return ShareClaims{}, ErrInvalidToken
	}
	scheduleID, ts, owner, signature := parts[0], parts[1], parts[2], parts[3]

	if !hmac.Equal([]byte(s.sign(scheduleID, ts, owner)), []byte(signature)) {
		return ShareClaims{}, ErrInvalidToken
	}
	expUnix, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return ShareClaims{}, ErrInvalidToken
	}
	rawOwner, err := base64.RawURLEncoding.DecodeString(owner)
	if err != nil {
		return ShareClaims{}, ErrInvalidToken
	}

	claims := ShareClaims{ScheduleID: scheduleID, OwnerID: string(rawOwner), ExpiresAt: time.Unix(expUnix, 0).UTC()}
	if s.now().After(claims.ExpiresAt) {
		return claims, ErrTokenExpired
	}
	return claims, nil
}

func (s *ShareTokenSigner) sign(scheduleID, ts, owner string) string {
	mac := hmac.New(sha256.New, s.secret)
	_, _ = mac.Write([]byte(scheduleID + "|" + ts + "|" + owner))
	return hex.EncodeToString(mac.Sum(nil))
}
