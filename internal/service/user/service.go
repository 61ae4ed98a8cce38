package user

import (
	"context"
	"strings"

	"mini-shop/internal/domain"
	userrepo "mini-shop/internal/repository/user"

	"github.com/google/uuid"
)

type userStore interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	UpdateProfile(ctx context.Context, id string, in userrepo.ProfileUpdate) (*domain.User, error)
	SaveAddresses(ctx context.Context, id string, addresses []domain.Address) (*domain.User, error)
}

type Service struct {
	repo  userStore
	newID func() string
}

func New(repo userStore) *Service {
	return &Service{repo: repo, newID: uuid.NewString}
}

type ProfileInput struct {
	NickName  *string `json:"nickName"`
	AvatarURL *string `json:"avatarUrl"`
	Phone     *string `json:"phone"`
}

type AddressInput struct {
	Name      string   `json:"name"`
	Phone     string   `json:"phone"`
	Region    []string `json:"region"`
	Detail    string   `json:"detail"`
	IsDefault bool     `json:"isDefault"`
}

func (s *Service) Profile(ctx context.Context, userID string) (*domain.User, error) {
	return s.repo.GetByID(ctx, userID)
}

// UpdateProfile changes the supplied profile fields. A phone already bound to
// another account surfaces as ErrAlreadyExists.
func (s *Service) UpdateProfile(ctx context.Context, userID string, in ProfileInput) (*domain.User, error) {
	upd := userrepo.ProfileUpdate{}
	if in.NickName != nil {
		nick := strings.TrimSpace(*in.NickName)
		if nick == "" {
			return nil, domain.Invalid("nickName", "nickName must not be empty")
		}
		upd.NickName = &nick
	}
	if in.AvatarURL != nil {
		avatar := strings.TrimSpace(*in.AvatarURL)
		upd.AvatarURL = &avatar
	}
	if in.Phone != nil {
		phone := strings.TrimSpace(*in.Phone)
		if phone != "" && !domain.MobilePattern.MatchString(phone) {
			return nil, domain.Invalid("phone", "invalid mobile number")
		}
		upd.Phone = &phone
	}
	return s.repo.UpdateProfile(ctx, userID, upd)
}

func (s *Service) Addresses(ctx context.Context, userID string) ([]domain.Address, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return u.Addresses, nil
}

// AddAddress appends an address. The first address, or one flagged default,
// becomes the only default.
func (s *Service) AddAddress(ctx context.Context, userID string, in AddressInput) ([]domain.Address, error) {
	if err := validateAddress(in); err != nil {
		return nil, err
	}
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	addr := toAddress(in)
	addr.ID = s.newID()
	addr.IsDefault = in.IsDefault || len(u.Addresses) == 0
	addresses := append(u.Addresses, addr)
	if addr.IsDefault {
		setDefault(addresses, addr.ID)
	}
	return s.save(ctx, userID, addresses)
}

func (s *Service) UpdateAddress(ctx context.Context, userID, addressID string, in AddressInput) ([]domain.Address, error) {
	if err := validateAddress(in); err != nil {
		return nil, err
	}
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	idx := u.AddressByID(addressID)
	if idx < 0 {
		return nil, domain.ErrNotFound
	}
	addr := toAddress(in)
	addr.ID = addressID
	addr.IsDefault = in.IsDefault || u.Addresses[idx].IsDefault
	u.Addresses[idx] = addr
	if in.IsDefault {
		setDefault(u.Addresses, addressID)
	}
	return s.save(ctx, userID, u.Addresses)
}

// DeleteAddress removes an address. If it was the default, the first
// remaining address inherits the flag.
func (s *Service) DeleteAddress(ctx context.Context, userID, addressID string) ([]domain.Address, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	idx := u.AddressByID(addressID)
	if idx < 0 {
		return nil, domain.ErrNotFound
	}
	wasDefault := u.Addresses[idx].IsDefault
	addresses := append(u.Addresses[:idx:idx], u.Addresses[idx+1:]...)
	if wasDefault && len(addresses) > 0 {
		setDefault(addresses, addresses[0].ID)
	}
	return s.save(ctx, userID, addresses)
}

func (s *Service) SetDefaultAddress(ctx context.Context, userID, addressID string) ([]domain.Address, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u.AddressByID(addressID) < 0 {
		return nil, domain.ErrNotFound
	}
	setDefault(u.Addresses, addressID)
	return s.save(ctx, userID, u.Addresses)
}

func (s *Service) save(ctx context.Context, userID string, addresses []domain.Address) ([]domain.Address, error) {
	u, err := s.repo.SaveAddresses(ctx, userID, addresses)
	if err != nil {
		return nil, err
	}
	return u.Addresses, nil
}

func setDefault(addresses []domain.Address, id string) {
	for i := range addresses {
		addresses[i].IsDefault = addresses[i].ID == id
	}
}

func toAddress(in AddressInput) domain.Address {
	region := make([]string, 0, len(in.Region))
	for _, r := range in.Region {
		region = append(region, strings.TrimSpace(r))
	}
	return domain.Address{
		Name:   strings.TrimSpace(in.Name),
		Phone:  strings.TrimSpace(in.Phone),
		Region: region,
		Detail: strings.TrimSpace(in.Detail),
	}
}

func validateAddress(in AddressInput) error {
	var fields []domain.FieldError
	if strings.TrimSpace(in.Name) == "" {
		fields = append(fields, domain.FieldError{Field: "name", Message: "name required"})
	}
	if !domain.MobilePattern.MatchString(strings.TrimSpace(in.Phone)) {
		fields = append(fields, domain.FieldError{Field: "phone", Message: "invalid mobile number"})
	}
	if len(in.Region) < domain.MinRegionParts {
		fields = append(fields, domain.FieldError{Field: "region", Message: "region needs province, city and district"})
	}
	if strings.TrimSpace(in.Detail) == "" {
		fields = append(fields, domain.FieldError{Field: "detail", Message: "detail required"})
	}
	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}
