package auth_test

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/maynagashev/gophboard/models"
	"github.com/maynagashev/gophboard/server/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testSecret = []byte("test-secret-key")
	testNow    = time.Unix(1700000000, 0).UTC()
)

// clock - управляемый источник времени для тестов.
type clock struct {
	now time.Time
}

func (c *clock) Now() time.Time {
	return c.now
}

func newTestCodec(t *testing.T, c *clock) *auth.Codec {
	t.Helper()
	codec, err := auth.NewCodec(auth.TokenConfig{Secret: testSecret, Now: c.Now})
	require.NoError(t, err)
	return codec
}

func signRaw(t *testing.T, method jwt.SigningMethod, claims jwt.MapClaims, key any) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func TestNewCodec(t *testing.T) {
	tests := []struct {
		name    string
		cfg     auth.TokenConfig
		wantErr bool
		wantTTL time.Duration
	}{
		{name: "Пустой ключ", cfg: auth.TokenConfig{}, wantErr: true},
		{name: "Отрицательный срок", cfg: auth.TokenConfig{Secret: testSecret, TTL: -time.Hour}, wantErr: true},
		{name: "Отрицательный допуск", cfg: auth.TokenConfig{Secret: testSecret, Leeway: -time.Second}, wantErr: true},
		{name: "Срок по умолчанию", cfg: auth.TokenConfig{Secret: testSecret}, wantTTL: auth.DefaultTokenTTL},
		{name: "Свой срок", cfg: auth.TokenConfig{Secret: testSecret, TTL: time.Hour}, wantTTL: time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			codec, err := auth.NewCodec(tt.cfg)
			if tt.wantErr {
				require.Error(t, err)
				assert.Nil(t, codec)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantTTL, codec.TTL())
		})
	}
}

func TestCodec_IssueVerify_RoundTrip(t *testing.T) {
	c := &clock{now: testNow}
	codec := newTestCodec(t, c)

	members := []*models.Member{
		{ID: 1, Username: "alice"},
		{ID: 42, Username: "боб"},
		{ID: 1 << 40, Username: "x"},
	}
	for _, member := range members {
		token, err := codec.Issue(member)
		require.NoError(t, err)
		assert.Len(t, strings.Split(token, "."), 3)

		claims, err := codec.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, member.ID, claims.MemberID)
		assert.Equal(t, member.Username, claims.Username)
		assert.Equal(t, testNow, claims.IssuedAt)
		assert.Equal(t, testNow.Add(auth.DefaultTokenTTL), claims.ExpiresAt)
	}
}

func TestCodec_Issue_NilMember(t *testing.T) {
	codec := newTestCodec(t, &clock{now: testNow})
	_, err := codec.Issue(nil)
	require.Error(t, err)
}

func TestCodec_Issue_PayloadIsReadableWithoutKey(t *testing.T) {
	codec := newTestCodec(t, &clock{now: testNow})
	token, err := codec.Issue(&models.Member{ID: 7, Username: "alice"})
	require.NoError(t, err)

	payload, err := base64.RawURLEncoding.DecodeString(strings.Split(token, ".")[1])
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(payload, &fields))
	assert.InDelta(t, 7, fields["member_id"], 0)
	assert.Equal(t, "alice", fields["username"])
	assert.InDelta(t, testNow.Unix(), fields["iat"], 0)
	assert.InDelta(t, testNow.Add(auth.DefaultTokenTTL).Unix(), fields["exp"], 0)
}

func TestCodec_Verify_Expiry(t *testing.T) {
	c := &clock{now: testNow}
	codec := newTestCodec(t, c)
	token, err := codec.Issue(&models.Member{ID: 1, Username: "alice"})
	require.NoError(t, err)
	expiresAt := testNow.Add(auth.DefaultTokenTTL)

	tests := []struct {
		name    string
		now     time.Time
		wantErr error
	}{
		{name: "За секунду до истечения", now: expiresAt.Add(-time.Second)},
		{name: "Ровно в момент истечения", now: expiresAt, wantErr: auth.ErrExpired},
		{name: "После истечения", now: expiresAt.Add(time.Hour), wantErr: auth.ErrExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c.now = tt.now
			claims, verifyErr := codec.Verify(token)
			if tt.wantErr != nil {
				require.ErrorIs(t, verifyErr, tt.wantErr)
				assert.Nil(t, claims)
				return
			}
			require.NoError(t, verifyErr)
			assert.Equal(t, int64(1), claims.MemberID)
		})
	}
}

func TestCodec_Verify_Leeway(t *testing.T) {
	c := &clock{now: testNow}
	codec, err := auth.NewCodec(auth.TokenConfig{Secret: testSecret, TTL: time.Hour, Leeway: time.Minute, Now: c.Now})
	require.NoError(t, err)
	token, err := codec.Issue(&models.Member{ID: 1, Username: "alice"})
	require.NoError(t, err)

	c.now = testNow.Add(time.Hour + 30*time.Second)
	_, err = codec.Verify(token)
	require.NoError(t, err)

	c.now = testNow.Add(time.Hour + time.Minute)
	_, err = codec.Verify(token)
	require.ErrorIs(t, err, auth.ErrExpired)
}

func TestCodec_Verify_EverySignatureCharacterChangeIsRejected(t *testing.T) {
	codec := newTestCodec(t, &clock{now: testNow})
	token, err := codec.Issue(&models.Member{ID: 1, Username: "alice"})
	require.NoError(t, err)

	sigStart := strings.LastIndex(token, ".") + 1
	for i := sigStart; i < len(token); i++ {
		replacement := byte('A')
		if token[i] == 'A' {
			replacement = 'B'
		}
		tampered := token[:i] + string(replacement) + token[i+1:]

		_, verifyErr := codec.Verify(tampered)
		require.ErrorIs(t, verifyErr, auth.ErrBadSignature, "позиция %d", i)
	}
}

func TestCodec_Verify_TamperedPayload(t *testing.T) {
	codec := newTestCodec(t, &clock{now: testNow})
	token, err := codec.Issue(&models.Member{ID: 1, Username: "alice"})
	require.NoError(t, err)
	parts := strings.Split(token, ".")

	forged, err := json.Marshal(map[string]any{
		"member_id": 2,
		"username":  "mallory",
		"iat":       testNow.Unix(),
		"exp":       testNow.Add(time.Hour).Unix(),
	})
	require.NoError(t, err)
	parts[1] = base64.RawURLEncoding.EncodeToString(forged)

	_, err = codec.Verify(strings.Join(parts, "."))
	require.ErrorIs(t, err, auth.ErrBadSignature)
}

// signSegments подписывает произвольные заголовок и полезную нагрузку ключом testSecret.
func signSegments(t *testing.T, header, payload string) string {
	t.Helper()
	signingString := base64.RawURLEncoding.EncodeToString([]byte(header)) + "." +
		base64.RawURLEncoding.EncodeToString([]byte(payload))
	sig, err := jwt.SigningMethodHS256.Sign(signingString, testSecret)
	require.NoError(t, err)
	return signingString + "." + base64.RawURLEncoding.EncodeToString(sig)
}

// Подмененные сегменты отклоняются по подписи, даже если их нельзя разобрать.
func TestCodec_Verify_SignatureCheckedBeforeDecoding(t *testing.T) {
	codec := newTestCodec(t, &clock{now: testNow})
	token, err := codec.Issue(&models.Member{ID: 1, Username: "alice"})
	require.NoError(t, err)

	tests := []struct {
		name    string
		segment int
		value   string
	}{
		{name: "Нагрузка не JSON", segment: 1, value: "garbage"},
		{name: "Заголовок не JSON", segment: 0, value: "{"},
		{name: "Заголовок с alg none", segment: 0, value: `{"alg":"none","typ":"JWT"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parts := strings.Split(token, ".")
			parts[tt.segment] = base64.RawURLEncoding.EncodeToString([]byte(tt.value))

			claims, err := codec.Verify(strings.Join(parts, "."))
			require.ErrorIs(t, err, auth.ErrBadSignature)
			assert.Nil(t, claims)
		})
	}
}

// Корректно подписанные, но неразбираемые сегменты считаются искаженным токеном.
func TestCodec_Verify_SignedGarbageIsMalformed(t *testing.T) {
	codec := newTestCodec(t, &clock{now: testNow})
	header := `{"alg":"HS256","typ":"JWT"}`

	tests := []struct {
		name  string
		token string
	}{
		{name: "Нагрузка не JSON", token: signSegments(t, header, "garbage")},
		{name: "Заголовок не JSON", token: signSegments(t, "{", `{"member_id":1}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := codec.Verify(tt.token)
			require.ErrorIs(t, err, auth.ErrMalformedToken)
			assert.Nil(t, claims)
		})
	}
}

func TestCodec_Verify_Rejections(t *testing.T) {
	c := &clock{now: testNow}
	codec := newTestCodec(t, c)
	exp := testNow.Add(time.Hour).Unix()

	tests := []struct {
		name    string
		token   func(t *testing.T) string
		wantErr error
	}{
		{
			name:    "Пустая строка",
			token:   func(*testing.T) string { return "" },
			wantErr: auth.ErrMalformedToken,
		},
		{
			name:    "Два сегмента",
			token:   func(*testing.T) string { return "aaa.bbb" },
			wantErr: auth.ErrMalformedToken,
		},
		{
			name:    "Четыре сегмента",
			token:   func(*testing.T) string { return "aaa.bbb.ccc.ddd" },
			wantErr: auth.ErrMalformedToken,
		},
		{
			name:    "Мусор вместо сегментов",
			token:   func(*testing.T) string { return "not-json.not-json.AAAA" },
			wantErr: auth.ErrBadSignature,
		},
		{
			name: "Чужой ключ",
			token: func(t *testing.T) string {
				return signRaw(t, jwt.SigningMethodHS256,
					jwt.MapClaims{"member_id": 1, "exp": exp}, []byte("other-secret"))
			},
			wantErr: auth.ErrBadSignature,
		},
		{
			name: "Алгоритм HS512",
			token: func(t *testing.T) string {
				return signRaw(t, jwt.SigningMethodHS512, jwt.MapClaims{"member_id": 1, "exp": exp}, testSecret)
			},
			wantErr: auth.ErrBadSignature,
		},
		{
			name: "Алгоритм none",
			token: func(t *testing.T) string {
				return signRaw(t, jwt.SigningMethodNone,
					jwt.MapClaims{"member_id": 1, "exp": exp}, jwt.UnsafeAllowNoneSignatureType)
			},
			wantErr: auth.ErrBadSignature,
		},
		{
			name: "Нет member_id",
			token: func(t *testing.T) string {
				return signRaw(t, jwt.SigningMethodHS256, jwt.MapClaims{"username": "alice", "exp": exp}, testSecret)
			},
			wantErr: auth.ErrMalformedToken,
		},
		{
			name: "member_id не число",
			token: func(t *testing.T) string {
				return signRaw(t, jwt.SigningMethodHS256, jwt.MapClaims{"member_id": "abc", "exp": exp}, testSecret)
			},
			wantErr: auth.ErrMalformedToken,
		},
		{
			name: "Нет exp",
			token: func(t *testing.T) string {
				return signRaw(t, jwt.SigningMethodHS256, jwt.MapClaims{"member_id": 1}, testSecret)
			},
			wantErr: auth.ErrMalformedToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := codec.Verify(tt.token(t))
			require.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, claims)
			assert.True(t, auth.IsRejection(err))
		})
	}
}

func TestCodec_Verify_ZeroMemberIDIsReturned(t *testing.T) {
	codec := newTestCodec(t, &clock{now: testNow})
	token := signRaw(t, jwt.SigningMethodHS256,
		jwt.MapClaims{"member_id": 0, "exp": testNow.Add(time.Hour).Unix()}, testSecret)

	claims, err := codec.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, int64(0), claims.MemberID)
}
