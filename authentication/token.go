package authentication

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"bloggy-api/apperror"
	"bloggy-api/authorization"
	"bloggy-api/helpers"
	"bloggy-api/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/twinj/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// token types
const (
	AT = "access_token"
	RT = "refresh_token"
)

// default lifetimes
const (
	AccessTTL  = 15 * time.Minute
	RefreshTTL = 7 * 24 * time.Hour
)

// custom error types
var (
	ErrUnauthorized = apperror.Unauthorized("unauthorized") // invalid, expired or revoked token
	ErrNotLoggedIn  = apperror.Unauthorized("requires authorization")
)

// Claims of both token types
type Claims struct {
	UserID      string `json:"user_id"`
	Role        string `json:"role,omitempty"`
	AccessUUID  string `json:"access_uuid,omitempty"`
	RefreshUUID string `json:"refresh_uuid,omitempty"`
	jwt.RegisteredClaims
}

// TokenDetails enthält die Daten von AT und RT
type TokenDetails struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	AccessUUID   string `json:"-"`
	RefreshUUID  string `json:"-"`
	AtExpires    int64  `json:"accessExpires"`
	RtExpires    int64  `json:"refreshExpires"`
}

// AccessDetails is the token metadata used for the registry (key/value redis)
type AccessDetails struct {
	TokenUUID string
	UserID    string
	IssuedAt  time.Time
}

// CredentialsReader is injected from the user repository
type CredentialsReader func(ctx context.Context, userID primitive.ObjectID) (*models.Credentials, error)

// Manager issues, verifies and revokes token pairs
type Manager struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Registry      Registry
	Cookie        helpers.CookieConfig
	Credentials   CredentialsReader
	Now           func() time.Time
}

func (m *Manager) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return time.Now()
}

func (m *Manager) ttl(tokenType string) time.Duration {
	if tokenType == AT {
		if m.AccessTTL > 0 {
			return m.AccessTTL
		}
		return AccessTTL
	}
	if m.RefreshTTL > 0 {
		return m.RefreshTTL
	}
	return RefreshTTL
}

func (m *Manager) secret(tokenType string) []byte {
	if tokenType == AT {
		return m.AccessSecret
	}
	return m.RefreshSecret
}

// CreateToken erzeugt ein Token-Paar (AT & RT)
func (m *Manager) CreateToken(userID string, role string) (*TokenDetails, error) {
	var err error
	now := m.now()
	td := &TokenDetails{}

	td.AtExpires = now.Add(m.ttl(AT)).Unix()
	td.AccessUUID = "at_" + uuid.NewV4().String()

	td.RtExpires = now.Add(m.ttl(RT)).Unix()
	td.RefreshUUID = "rt_" + uuid.NewV4().String()

	at := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID:     userID, // userID rather than email (login name)
		Role:       role,
		AccessUUID: td.AccessUUID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Unix(td.AtExpires, 0)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	})
	td.AccessToken, err = at.SignedString(m.AccessSecret)
	if err != nil {
		return nil, err
	}

	rt := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID:      userID,
		RefreshUUID: td.RefreshUUID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Unix(td.RtExpires, 0)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	})
	td.RefreshToken, err = rt.SignedString(m.RefreshSecret)
	if err != nil {
		return nil, err
	}

	return td, nil
}

// CreateAuth speichert die Metadaten vom Token-Paar in der Registry (redis)
func (m *Manager) CreateAuth(ctx context.Context, userID string, td *TokenDetails) error {
	now := m.now()

	err := m.Registry.Register(ctx, td.AccessUUID, userID, time.Unix(td.AtExpires, 0).Sub(now))
	if err != nil {
		return err
	}

	return m.Registry.Register(ctx, td.RefreshUUID, userID, time.Unix(td.RtExpires, 0).Sub(now))
}

// CreateTokens erzeugt ein Token-Paar, registriert es und sendet es via Cookie
func (m *Manager) CreateTokens(c *gin.Context, userID string, role string) (*TokenDetails, error) {
	td, err := m.CreateToken(userID, role)
	if err != nil {
		return nil, err
	}

	if err = m.CreateAuth(c.Request.Context(), userID, td); err != nil {
		return nil, err
	}

	// without a cookie key the tokens are sent in the body only
	if len(m.Cookie.HashKey) > 0 {
		tokens := map[string]string{
			AT: td.AccessToken,
			RT: td.RefreshToken,
		}
		if err = helpers.SetCookie(c, m.Cookie, tokens); err != nil {
			return nil, err
		}
	}

	return td, nil
}

// ExtractToken liefert ein noch verschlüsseltes Token:
// the Authorization header (access tokens only) wins over the cookie
func (m *Manager) ExtractToken(tokenType string, r *http.Request) (string, error) {
	if tokenType == AT {
		h := r.Header.Get("Authorization")
		if strings.HasPrefix(h, "Bearer ") {
			return strings.TrimSpace(strings.TrimPrefix(h, "Bearer ")), nil
		}
	}

	if len(m.Cookie.HashKey) == 0 {
		return "", ErrNotLoggedIn
	}

	cval, err := helpers.GetCookie(r, m.Cookie)
	if err != nil {
		return "", ErrNotLoggedIn
	}

	tokens := make(map[string]string)
	if err = json.Unmarshal(cval, &tokens); err != nil {
		return "", ErrUnauthorized
	}
	if tokens[tokenType] == "" {
		return "", ErrNotLoggedIn
	}

	return tokens[tokenType], nil
}

// VerifyToken prüft die Signatur und das Ablaufdatum
func (m *Manager) VerifyToken(tokenType string, tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// make sure the token method conforms to "SigningMethodHMAC"
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret(tokenType), nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil || !token.Valid {
		return nil, ErrUnauthorized
	}

	// an access token must not be accepted as refresh token and vice versa
	if (tokenType == AT && claims.AccessUUID == "") || (tokenType == RT && claims.RefreshUUID == "") {
		return nil, ErrUnauthorized
	}

	return claims, nil
}

// Metadata auslesen (für Redis-Zugriff)
func metadata(tokenType string, claims *Claims) *AccessDetails {
	ad := &AccessDetails{UserID: claims.UserID}
	if tokenType == AT {
		ad.TokenUUID = claims.AccessUUID
	} else {
		ad.TokenUUID = claims.RefreshUUID
	}
	if claims.IssuedAt != nil {
		ad.IssuedAt = claims.IssuedAt.Time
	}
	return ad
}

// ExtractTokenMetadata reads and verifies the token of the request
func (m *Manager) ExtractTokenMetadata(tokenType string, r *http.Request) (*AccessDetails, error) {
	tokenString, err := m.ExtractToken(tokenType, r)
	if err != nil {
		return nil, err
	}

	claims, err := m.VerifyToken(tokenType, tokenString)
	if err != nil {
		return nil, err
	}

	return metadata(tokenType, claims), nil
}

// FetchAuth checks that the token was not revoked and belongs to the user of the claims
func (m *Manager) FetchAuth(ctx context.Context, ad *AccessDetails) (string, error) {
	userID, err := m.Registry.Fetch(ctx, ad.TokenUUID)
	if err != nil {
		return "", err
	}
	if userID != ad.UserID {
		return "", ErrUnauthorized
	}
	return userID, nil
}

// DeleteAuth removes a token from the store upon log-out request
func (m *Manager) DeleteAuth(ctx context.Context, tokenUUID string) (int64, error) {
	return m.Registry.Revoke(ctx, tokenUUID)
}

// check loads the current role of the user and rejects tokens of deleted users
// and tokens issued before the last password change
func (m *Manager) check(ctx context.Context, ad *AccessDetails) (*authorization.Credentials, error) {
	if _, err := m.FetchAuth(ctx, ad); err != nil {
		return nil, err
	}

	oid, err := primitive.ObjectIDFromHex(ad.UserID)
	if err != nil {
		return nil, ErrUnauthorized
	}

	cred, err := m.Credentials(ctx, oid)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}

	if cred.PasswordChangedAt != nil && ad.IssuedAt.Before(cred.PasswordChangedAt.Truncate(time.Second)) {
		return nil, ErrUnauthorized
	}

	return &authorization.Credentials{UserID: oid, Role: cred.Role}, nil
}

// Authenticate prüft die Berechtigung zur Ausführung einer Route
// und liefert die Credentials des Benutzers zurück
func (m *Manager) Authenticate(r *http.Request) (*authorization.Credentials, *AccessDetails, error) {
	ad, err := m.ExtractTokenMetadata(AT, r)
	if err != nil {
		return nil, nil, err
	}

	cred, err := m.check(r.Context(), ad)
	if err != nil {
		return nil, nil, err
	}
	return cred, ad, nil
}

// Refresh revokes the given refresh token and issues a new pair; an empty
// tokenString is read from the cookie
func (m *Manager) Refresh(c *gin.Context, tokenString string) (*TokenDetails, *authorization.Credentials, error) {
	var err error
	if tokenString == "" {
		tokenString, err = m.ExtractToken(RT, c.Request)
		if err != nil {
			return nil, nil, err
		}
	}

	claims, err := m.VerifyToken(RT, tokenString)
	if err != nil {
		return nil, nil, err
	}
	ad := metadata(RT, claims)

	cred, err := m.check(c.Request.Context(), ad)
	if err != nil {
		return nil, nil, err
	}

	// a refresh token is used once
	if _, err = m.DeleteAuth(c.Request.Context(), ad.TokenUUID); err != nil {
		return nil, nil, err
	}

	td, err := m.CreateTokens(c, ad.UserID, cred.Role)
	if err != nil {
		return nil, nil, err
	}
	return td, cred, nil
}

// Logout revokes the access token of the request and, if present, the refresh token;
// errors are ignored since the tokens may be expired already
func (m *Manager) Logout(c *gin.Context, refreshToken string) {
	ctx := c.Request.Context()

	if ad, err := m.ExtractTokenMetadata(AT, c.Request); err == nil {
		_, _ = m.DeleteAuth(ctx, ad.TokenUUID)
	}

	if refreshToken == "" {
		refreshToken, _ = m.ExtractToken(RT, c.Request)
	}
	if refreshToken != "" {
		if claims, err := m.VerifyToken(RT, refreshToken); err == nil {
			_, _ = m.DeleteAuth(ctx, claims.RefreshUUID)
		}
	}

	if len(m.Cookie.HashKey) > 0 {
		_ = helpers.DelCookie(c, m.Cookie)
	}
}

// TokenAuthMiddleware requires a valid access token and stores the credentials in the context
func (m *Manager) TokenAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		cred, ad, err := m.Authenticate(c.Request)
		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}
		authorization.SetCredentials(c, *cred)
		c.Set("access_uuid", ad.TokenUUID)
		c.Next()
	}
}

// OptionalAuthMiddleware sets the credentials when a valid token is present,
// anonymous requests pass
func (m *Manager) OptionalAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if cred, _, err := m.Authenticate(c.Request); err == nil {
			authorization.SetCredentials(c, *cred)
		}
		c.Next()
	}
}
