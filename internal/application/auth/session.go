package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/ops-dashboard-api/internal/domain"
	"github.com/jhoicas/ops-dashboard-api/internal/domain/entity"
	"github.com/jhoicas/ops-dashboard-api/internal/domain/permission"
	"github.com/jhoicas/ops-dashboard-api/internal/domain/repository"
	"github.com/jhoicas/ops-dashboard-api/internal/infrastructure/kv"
	"github.com/jhoicas/ops-dashboard-api/pkg/jwt"
	"github.com/jhoicas/ops-dashboard-api/pkg/logger"
)

// Claves de la sesión dentro de su espacio de nombres.
const (
	KeyAuthToken = "auth_token"
	KeyUserData  = "user_data"

	sessionBlobVersion = 1
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// UserData datos del usuario autenticado que se guardan en la sesión.
type UserData struct {
	ID        int64       `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Role      entity.Role `json:"role"`
	Area      string      `json:"area"`
	CompanyID int64       `json:"companyId"`
	Location  string      `json:"location"`
}

// NewUserData proyecta un usuario a los datos de sesión (sin contraseña).
func NewUserData(u *entity.User) *UserData {
	return &UserData{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		Area:      u.Area,
		CompanyID: u.CompanyID,
		Location:  u.Location,
	}
}

// Credentials entrada de Login. CompanyID opcional restringe la búsqueda a una empresa.
type Credentials struct {
	Email     string
	Password  string
	CompanyID *int64
}

// SessionManager crea y recupera sesiones sobre el almacenamiento durable.
type SessionManager struct {
	storage  repository.KeyValueStorage
	users    repository.UserRepository
	registry *permission.Registry
	hasher   *PasswordHasher
	jwtCfg   JWTConfig
	log      *logger.Logger
}

// NewSessionManager construye el gestor de sesiones.
func NewSessionManager(
	storage repository.KeyValueStorage,
	users repository.UserRepository,
	registry *permission.Registry,
	hasher *PasswordHasher,
	jwtCfg JWTConfig,
	log *logger.Logger,
) *SessionManager {
	if log == nil {
		log = logger.Nop()
	}
	return &SessionManager{
		storage:  storage,
		users:    users,
		registry: registry,
		hasher:   hasher,
		jwtCfg:   jwtCfg,
		log:      log.Named("session"),
	}
}

// NewSession abre una sesión anónima con un identificador nuevo.
func (m *SessionManager) NewSession() *Session {
	return m.Session(uuid.NewString())
}

// Session devuelve la sesión id (exista o no en el almacenamiento).
func (m *SessionManager) Session(id string) *Session {
	ns := kv.WithPrefix(m.storage, "session:"+id+":")
	return &Session{id: id, m: m, blobs: kv.NewBlobCodec(ns, sessionBlobVersion, m.log)}
}

// Authenticate valida un bearer token: firma y vencimiento, y que siga siendo el token
// persistido de su sesión (un logout lo revoca aunque no haya vencido). Los datos de
// usuario se contrastan con el registro vigente: si el usuario fue eliminado la sesión
// se cierra, y si cambió (rol, empresa, datos) la sesión se reescribe.
func (m *SessionManager) Authenticate(ctx context.Context, token string) (*Session, *UserData, error) {
	claims, err := jwt.Parse(m.jwtCfg.Secret, token)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: token inválido o expirado", domain.ErrUnauthorized)
	}
	s := m.Session(claims.SessionID())
	stored, err := s.GetToken(ctx)
	if err != nil {
		return nil, nil, err
	}
	if stored == "" || stored != token {
		return nil, nil, fmt.Errorf("%w: sesión cerrada", domain.ErrUnauthorized)
	}
	ud, err := s.GetUserData(ctx)
	if err != nil {
		return nil, nil, err
	}
	if ud == nil {
		return nil, nil, fmt.Errorf("%w: sesión sin datos de usuario", domain.ErrUnauthorized)
	}

	user, err := m.users.GetByID(ctx, ud.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("autenticar: %w", err)
	}
	if user == nil {
		m.log.Info().Str("session", s.id).Int64("user_id", ud.ID).Msg("sesión de usuario eliminado; se cierra")
		if err := s.Logout(ctx); err != nil {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("%w: el usuario ya no existe", domain.ErrUnauthorized)
	}
	if current := NewUserData(user); *current != *ud {
		if err := s.SetUserData(ctx, current); err != nil {
			return nil, nil, err
		}
		ud = current
	}
	return s, ud, nil
}

// Session estado de autenticación de un cliente. Estados: anónima (sin token) y
// autenticada (token + datos de usuario).
type Session struct {
	id    string
	m     *SessionManager
	blobs *kv.BlobCodec
}

// ID identificador de la sesión (jti del token).
func (s *Session) ID() string { return s.id }

// Login verifica credenciales y, si son válidas, persiste token y datos de usuario.
// Si fallan, el almacenamiento no se toca.
func (s *Session) Login(ctx context.Context, in Credentials) (*UserData, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: email y contraseña son requeridos", domain.ErrInvalidInput)
	}

	var (
		user *entity.User
		err  error
	)
	if in.CompanyID != nil {
		user, err = s.m.users.FindByEmailAndCompany(ctx, email, *in.CompanyID)
	} else {
		user, err = s.m.users.FindByEmail(ctx, email)
	}
	if err != nil {
		return nil, fmt.Errorf("error en el inicio de sesión: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: usuario no encontrado", domain.ErrInvalidCredentials)
	}
	if !s.m.hasher.Verify(user.Password, in.Password) {
		return nil, fmt.Errorf("%w: contraseña incorrecta", domain.ErrInvalidCredentials)
	}

	token, err := jwt.Generate(s.m.jwtCfg.Secret, s.id, user.ID, user.CompanyID, string(user.Role), s.m.jwtCfg.Issuer, s.m.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, fmt.Errorf("error en el inicio de sesión: %w", err)
	}
	ud := NewUserData(user)
	ttl := s.ttl()
	if err := s.blobs.Save(ctx, KeyUserData, ud, ttl); err != nil {
		return nil, fmt.Errorf("error en el inicio de sesión: %w", err)
	}
	if err := s.blobs.Save(ctx, KeyAuthToken, token, ttl); err != nil {
		_ = s.blobs.Delete(ctx, KeyUserData)
		return nil, fmt.Errorf("error en el inicio de sesión: %w", err)
	}

	s.m.log.Info().Str("session", s.id).Int64("user_id", user.ID).Str("role", string(user.Role)).Msg("login")
	return ud, nil
}

// Logout borra token y datos de usuario. Idempotente.
func (s *Session) Logout(ctx context.Context) error {
	return errors.Join(
		s.blobs.Delete(ctx, KeyAuthToken),
		s.blobs.Delete(ctx, KeyUserData),
	)
}

// IsAuthenticated indica si hay token persistido (no valida firma ni vencimiento).
func (s *Session) IsAuthenticated(ctx context.Context) bool {
	tok, err := s.GetToken(ctx)
	return err == nil && tok != ""
}

// GetToken devuelve el token persistido o "" si no hay.
func (s *Session) GetToken(ctx context.Context) (string, error) {
	var tok string
	if _, err := s.blobs.Load(ctx, KeyAuthToken, &tok); err != nil {
		return "", err
	}
	return tok, nil
}

// GetUserData devuelve los datos persistidos; nil si no hay o están corruptos.
func (s *Session) GetUserData(ctx context.Context) (*UserData, error) {
	var ud UserData
	found, err := s.blobs.Load(ctx, KeyUserData, &ud)
	if err != nil || !found {
		return nil, err
	}
	return &ud, nil
}

// SetUserData reemplaza los datos de usuario persistidos, sin validarlos.
func (s *Session) SetUserData(ctx context.Context, ud *UserData) error {
	return s.blobs.Save(ctx, KeyUserData, ud, s.ttl())
}

// HasPermission evalúa los permisos del rol de la sesión; sin sesión → false.
func (s *Session) HasPermission(ctx context.Context, perms ...permission.Permission) bool {
	ud, err := s.GetUserData(ctx)
	if err != nil || ud == nil {
		return false
	}
	return s.m.registry.HasPermission(ud.Role, perms...)
}

func (s *Session) ttl() time.Duration {
	if s.m.jwtCfg.ExpMinutes <= 0 {
		return 0
	}
	return time.Duration(s.m.jwtCfg.ExpMinutes) * time.Minute
}
