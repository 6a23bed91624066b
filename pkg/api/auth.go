package api

// SigninInitRequest открывает SRP обмен (signin/init)
type SigninInitRequest struct {
	A           string   `json:"a"`           // base64 публичный эфемерный ключ клиента
	AccountName string   `json:"accountName"` // Apple ID
	Protocols   []string `json:"protocols"`   // поддерживаемые схемы вывода ключа
}

// SigninInitResponse содержит параметры SRP от сервера
type SigninInitResponse struct {
	Salt      string `json:"salt"`      // base64 соль
	B         string `json:"b"`         // base64 публичный эфемерный ключ сервера
	C         string `json:"c"`         // непрозрачный идентификатор обмена
	Protocol  string `json:"protocol"`  // "s2k" или "s2k_fo"
	Iteration int    `json:"iteration"` // число итераций PBKDF2
}

// SigninCompleteRequest завершает SRP обмен доказательствами
type SigninCompleteRequest struct {
	AccountName string   `json:"accountName"`
	C           string   `json:"c"`
	M1          string   `json:"m1"` // base64 доказательство клиента
	M2          string   `json:"m2"` // base64 ожидаемое доказательство сервера
	TrustTokens []string `json:"trustTokens"`
	RememberMe  bool     `json:"rememberMe"`
}

// SigninCompleteResponse тело ответа signin/complete
type SigninCompleteResponse struct {
	M2         string `json:"M2,omitempty"`
	AuthType   string `json:"authType,omitempty"`
	ServiceErr string `json:"serviceErrors,omitempty"`
}

// AccountLoginRequest обменивает session token на данные аккаунта
type AccountLoginRequest struct {
	AccountCountryCode string `json:"accountCountryCode"`
	DSWebAuthToken     string `json:"dsWebAuthToken"`
	TrustToken         string `json:"trustToken"`
	ExtendedLogin      bool   `json:"extended_login"`
}

// ServiceLoginRequest однофакторный вход для отдельного сервиса
type ServiceLoginRequest struct {
	AppName  string `json:"appName"`
	AppleID  string `json:"apple_id"`
	Password string `json:"password"`
}

// DSInfo описывает аккаунт и версию двухфакторной схемы
type DSInfo struct {
	DSID       string `json:"dsid,omitempty"`
	FullName   string `json:"fullName,omitempty"`
	HSAVersion int    `json:"hsaVersion"`
}

// Webservice адрес отдельного сервиса аккаунта
type Webservice struct {
	URL    string `json:"url"`
	Status string `json:"status,omitempty"`
}

// App описывает возможности приложения аккаунта
type App struct {
	CanLaunchWithOneFactor bool `json:"canLaunchWithOneFactor,omitempty"`
}

// AccountLoginResponse финальный payload аутентификации
type AccountLoginResponse struct {
	Webservices          map[string]Webservice `json:"webservices,omitempty"`
	Apps                 map[string]App        `json:"apps,omitempty"`
	DSInfo               DSInfo                `json:"dsInfo"`
	HSAChallengeRequired bool                  `json:"hsaChallengeRequired"`
	HSATrustedBrowser    bool                  `json:"hsaTrustedBrowser"`
}

// TrustedDevice устройство для двухэтапной проверки (2SA).
// Отправляется на сервер обратно как есть.
type TrustedDevice struct {
	DeviceType  string `json:"deviceType,omitempty"`
	DeviceName  string `json:"deviceName,omitempty"`
	DeviceID    string `json:"deviceId,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	AreaCode    string `json:"areaCode,omitempty"`
}

// DisplayName возвращает имя устройства для выбора пользователем
func (d TrustedDevice) DisplayName() string {
	if d.DeviceName != "" {
		return d.DeviceName
	}
	return "SMS to " + d.PhoneNumber
}

// ListDevicesResponse список доверенных устройств
type ListDevicesResponse struct {
	Devices []TrustedDevice `json:"devices"`
}

// SendCodeResponse результат отправки кода на устройство
type SendCodeResponse struct {
	Success bool `json:"success"`
}

// ValidateCodeRequest проверка кода 2SA
type ValidateCodeRequest struct {
	TrustedDevice
	VerificationCode string `json:"verificationCode"`
	TrustBrowser     bool   `json:"trustBrowser"`
}

// SecurityCode код одноразового push подтверждения (2FA)
type SecurityCode struct {
	Code string `json:"code"`
}

// SecurityCodeRequest тело verify/trusteddevice/securitycode
type SecurityCodeRequest struct {
	SecurityCode SecurityCode `json:"securityCode"`
}

// ErrorResponse конверт ошибки сервиса
type ErrorResponse struct {
	ErrorCode    any    `json:"errorCode,omitempty"`
	ErrorMessage string `json:"errorMessage,omitempty"`
	Reason       string `json:"reason,omitempty"`
	Error        string `json:"error,omitempty"`
}

// Requires2FA нужен одноразовый push код (HSA2)
func (r *AccountLoginResponse) Requires2FA() bool {
	return r.DSInfo.HSAVersion == 2 && (r.HSAChallengeRequired || !r.HSATrustedBrowser)
}

// Requires2SA нужна двухэтапная проверка любого вида
func (r *AccountLoginResponse) Requires2SA() bool {
	return r.DSInfo.HSAVersion >= 1 && (r.HSAChallengeRequired || !r.HSATrustedBrowser)
}
