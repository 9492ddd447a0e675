package supabase

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/golang-jwt/jwt"
	"github.com/supabase-community/supabase-go"

	"echonotes/ai-backend/config"
)

// ErrNotAuthenticated means the request carried no usable identity. Saves and
// reads are refused; nothing else is affected.
var ErrNotAuthenticated = errors.New("not authenticated")

var Client *supabase.Client

func Init() {
	apiURL := os.Getenv("SUPABASE_URL")
	apiKey := os.Getenv("SUPABASE_KEY")

	if apiURL == "" || apiKey == "" {
		config.Logger.Fatal("SUPABASE_URL or SUPABASE_KEY is missing")
	}

	var err error
	Client, err = supabase.NewClient(apiURL, apiKey, &supabase.ClientOptions{})
	if err != nil {
		config.Logger.Fatal("Failed to create Supabase client:", err)
	}
}

// ClientFromRequest builds a per-request client that forwards the caller's
// JWT, so row-level security applies, and returns the caller's user id. The
// token is not verified here; Supabase rejects bad signatures on its side.
func ClientFromRequest(r *http.Request) (*supabase.Client, string, error) {
	apiURL := os.Getenv("SUPABASE_URL")
	apiKey := os.Getenv("SUPABASE_KEY")

	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil, "", fmt.Errorf("%w: missing Authorization header", ErrNotAuthenticated)
	}

	jwtString := strings.TrimPrefix(authHeader, "Bearer ")
	if jwtString == "" {
		return nil, "", fmt.Errorf("%w: invalid Authorization header", ErrNotAuthenticated)
	}

	token, _, err := new(jwt.Parser).ParseUnverified(jwtString, jwt.MapClaims{})
	if err != nil {
		return nil, "", fmt.Errorf("%w: invalid JWT format", ErrNotAuthenticated)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, "", fmt.Errorf("%w: invalid JWT claims", ErrNotAuthenticated)
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return nil, "", fmt.Errorf("%w: missing sub in token", ErrNotAuthenticated)
	}

	client, err := supabase.NewClient(apiURL, apiKey, &supabase.ClientOptions{
		Headers: map[string]string{
			"Authorization": "Bearer " + jwtString,
		},
	})
	if err != nil {
		return nil, "", err
	}
	return client, sub, nil
}
