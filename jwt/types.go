package jwt

// Header is the JOSE header of a token.
type Header struct {
	Type      string `json:"typ"`
	Algorithm string `json:"alg"`
	KeyID     string `json:"kid,omitempty"`
}

// Claims carries the identity of the requester.
type Claims struct {
	UserID         string `json:"userId"`
	IssuedAt       int64  `json:"iat,omitempty"`
	ExpirationTime int64  `json:"exp,omitempty"`
}
