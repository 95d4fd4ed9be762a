package user

import "time"

// ==== Roles ====
const (
	RolePassenger = "passenger"
	RoleDriver    = "driver"
	RoleAdmin     = "admin"
)

// Vehicle — описание автомобиля водителя
type Vehicle struct {
	Type  string `json:"type"`
	Model string `json:"model"`
	Plate string `json:"plate"`
	Color string `json:"color"`
	Year  int    `json:"year"`
}

// DriverProfile — данные, существующие только у роли driver
type DriverProfile struct {
	LicenseNumber string   `json:"license_number"`
	Vehicle       Vehicle  `json:"vehicle"`
	IsAvailable   bool     `json:"is_available"`
	CurrentLat    *float64 `json:"current_lat,omitempty"`
	CurrentLng    *float64 `json:"current_lng,omitempty"`
	Rating        float64  `json:"rating"`
	TotalRides    int      `json:"total_rides"`
	Earnings      float64  `json:"earnings"`
}

// PassengerProfile — данные, существующие только у роли passenger
type PassengerProfile struct {
	Rating         float64  `json:"rating"`
	TotalRides     int      `json:"total_rides"`
	PaymentMethods []string `json:"payment_methods"`
	WalletBalance  float64  `json:"wallet_balance"`
}

// NotificationPrefs — пользовательские настройки уведомлений
type NotificationPrefs struct {
	RideUpdates bool `json:"ride_updates"`
	Promotions  bool `json:"promotions"`
	Email       bool `json:"email"`
	SMS         bool `json:"sms"`
}

// SecurityPrefs — настройки безопасности
type SecurityPrefs struct {
	ShareTripsWithGuardian bool `json:"share_trips_with_guardian"`
	LoginAlerts            bool `json:"login_alerts"`
}

// TrustedContact — доверенный контакт (получает SOS и share-уведомления)
type TrustedContact struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Relationship string `json:"relationship"`
	IsGuardian   bool   `json:"is_guardian"`
}

// User — основная учетная запись. PasswordHash никогда не сериализуется.
type User struct {
	ID                string            `json:"id"`
	Name              string            `json:"name"`
	Email             string            `json:"email"`
	Phone             string            `json:"phone"`
	PasswordHash      string            `json:"-"`
	Role              string            `json:"role"`
	AvatarURL         string            `json:"avatar_url"`
	IsActive          bool              `json:"is_active"`
	IsVerified        bool              `json:"is_verified"`
	NotificationPrefs NotificationPrefs `json:"notification_prefs"`
	SecurityPrefs     SecurityPrefs     `json:"security_prefs"`
	DriverProfile     *DriverProfile    `json:"driver_profile,omitempty"`
	PassengerProfile  *PassengerProfile `json:"passenger_profile,omitempty"`
	TrustedContacts   []TrustedContact  `json:"trusted_contacts,omitempty"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

// IsDriver проверяет роль
func (u *User) IsDriver() bool { return u.Role == RoleDriver }
