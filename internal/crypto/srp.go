package crypto

import (
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
)

// Группа 2048 бит из RFC 5054, хеш SHA-256
const srpPrimeHex = "" +
	"AC6BDB41324A9A9BF166DE5E1389582FAF72B6651987EE07FC3192943DB56050" +
	"A37329CBB4A099ED8193E0757767A13DD52312AB4B03310DCD7F48A9DA04FD50" +
	"E8083969EDB767B0CF6095179A163AB3661A05FBD5FAAAE82918A9962F0B93B8" +
	"55F97993EC975EEAA80D740ADBF4FF747359D041D5C33EA71D281E446B14773B" +
	"CA97B43A23FB801676BD207A436C6481F1D2B9078717461A5B9D32E688F87748" +
	"544523B524B0D57D5EA77A2775D2ECFA032CFBDBF52FB3786160279004E57AE6" +
	"AF874E7303CE53299CCC041C7BC308D82A5698F3A8D0C38271AE35F8E9DBFBB6" +
	"94B5C803D89F7AE435DE236D525F54759B65E372FCD68EF20FA7111F9E4AFF73"

const ephemeralBits = 256

var (
	srpN, _ = new(big.Int).SetString(srpPrimeHex, 16)
	srpG    = big.NewInt(2)
	srpLen  = len(srpN.Bytes())
	srpK    = new(big.Int).SetBytes(srpHash(srpN.Bytes(), pad(srpG.Bytes(), srpLen)))
)

var (
	// ErrSRPBadPublicKey публичный ключ другой стороны недопустим
	ErrSRPBadPublicKey = errors.New("srp: invalid public key")
	// ErrSRPBadProof доказательство не совпало
	ErrSRPBadProof = errors.New("srp: proof mismatch")
)

// SRPClient клиентская сторона SRP-6a
type SRPClient struct {
	a *big.Int
	A *big.Int
}

// NewSRPClient создает клиента со случайным эфемерным ключом
func NewSRPClient() (*SRPClient, error) {
	a, err := randomExponent()
	if err != nil {
		return nil, err
	}
	return &SRPClient{a: a, A: new(big.Int).Exp(srpG, a, srpN)}, nil
}

// PublicKey возвращает A для signin/init
func (c *SRPClient) PublicKey() []byte {
	return c.A.Bytes()
}

// ProcessChallenge вычисляет доказательства M1 и M2 по ответу сервера.
// passwordKey уже выведен через PasswordKey.
func (c *SRPClient) ProcessChallenge(username string, passwordKey, salt, serverB []byte) (m1, m2 []byte, err error) {
	B := new(big.Int).SetBytes(serverB)
	if new(big.Int).Mod(B, srpN).Sign() == 0 {
		return nil, nil, ErrSRPBadPublicKey
	}

	u := scramble(c.A, B)
	if u.Sign() == 0 {
		return nil, nil, ErrSRPBadPublicKey
	}
	x := privateKey(passwordKey, salt)

	// S = (B - k*g^x) ^ (a + u*x) mod N
	kv := new(big.Int).Mul(srpK, new(big.Int).Exp(srpG, x, srpN))
	base := new(big.Int).Sub(B, kv)
	base.Mod(base, srpN)
	exp := new(big.Int).Add(c.a, new(big.Int).Mul(u, x))
	S := new(big.Int).Exp(base, exp, srpN)

	K := srpHash(S.Bytes())
	m1 = clientProof(username, salt, c.A, B, K)
	m2 = srpHash(c.A.Bytes(), m1, K)
	return m1, m2, nil
}

// NewVerifier вычисляет верификатор v = g^x для хранения на сервере
func NewVerifier(passwordKey, salt []byte) []byte {
	x := privateKey(passwordKey, salt)
	return new(big.Int).Exp(srpG, x, srpN).Bytes()
}

// SRPServer серверная сторона SRP-6a
type SRPServer struct {
	b        *big.Int
	B        *big.Int
	v        *big.Int
	username string
	salt     []byte
}

// NewSRPServer готовит обмен для аккаунта с известными солью и верификатором
func NewSRPServer(username string, salt, verifier []byte) (*SRPServer, error) {
	b, err := randomExponent()
	if err != nil {
		return nil, err
	}
	v := new(big.Int).SetBytes(verifier)

	// B = k*v + g^b mod N
	B := new(big.Int).Mul(srpK, v)
	B.Add(B, new(big.Int).Exp(srpG, b, srpN))
	B.Mod(B, srpN)

	return &SRPServer{b: b, B: B, v: v, username: username, salt: salt}, nil
}

// PublicKey возвращает B для ответа signin/init
func (s *SRPServer) PublicKey() []byte {
	return s.B.Bytes()
}

// Verify проверяет M1 клиента и возвращает M2
func (s *SRPServer) Verify(clientA, m1 []byte) ([]byte, error) {
	A := new(big.Int).SetBytes(clientA)
	if new(big.Int).Mod(A, srpN).Sign() == 0 {
		return nil, ErrSRPBadPublicKey
	}
	u := scramble(A, s.B)
	if u.Sign() == 0 {
		return nil, ErrSRPBadPublicKey
	}

	// S = (A * v^u) ^ b mod N
	base := new(big.Int).Mul(A, new(big.Int).Exp(s.v, u, srpN))
	base.Mod(base, srpN)
	S := new(big.Int).Exp(base, s.b, srpN)

	K := srpHash(S.Bytes())
	expected := clientProof(s.username, s.salt, A, s.B, K)
	if subtle.ConstantTimeCompare(expected, m1) != 1 {
		return nil, ErrSRPBadProof
	}
	return srpHash(A.Bytes(), m1, K), nil
}

func randomExponent() (*big.Int, error) {
	buf := make([]byte, ephemeralBits/8)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("failed to generate srp ephemeral: %w", err)
	}
	return new(big.Int).SetBytes(buf), nil
}

// scramble u = H(PAD(A) | PAD(B))
func scramble(A, B *big.Int) *big.Int {
	return new(big.Int).SetBytes(srpHash(pad(A.Bytes(), srpLen), pad(B.Bytes(), srpLen)))
}

// privateKey x = H(salt | H(":" | passwordKey)), имя пользователя в x не входит
func privateKey(passwordKey, salt []byte) *big.Int {
	inner := srpHash([]byte(":"), passwordKey)
	return new(big.Int).SetBytes(srpHash(salt, inner))
}

// clientProof M1 = H(H(N) xor H(g) | H(I) | salt | A | B | K)
func clientProof(username string, salt []byte, A, B *big.Int, K []byte) []byte {
	hn := srpHash(srpN.Bytes())
	hg := srpHash(srpG.Bytes())
	for i := range hn {
		hn[i] ^= hg[i]
	}
	return srpHash(hn, srpHash([]byte(username)), salt, A.Bytes(), B.Bytes(), K)
}
