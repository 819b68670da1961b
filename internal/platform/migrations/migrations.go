package migrations

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Run applies the schema for the bounded contexts. Intended to replace adapter-level automigrate.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&petRecord{},
		&applicationRecord{},
		&userRecord{},
		&sessionRecord{},
	)
}

// Pet schema mirrors the pets Postgres adapter.
type petRecord struct {
	ID           int64          `gorm:"primaryKey;column:id"`
	Name         string         `gorm:"column:name"`
	Species      string         `gorm:"column:species;type:varchar(64)"`
	Breed        string         `gorm:"column:breed"`
	AgeMonths    int32          `gorm:"column:age_months"`
	Description  string         `gorm:"column:description"`
	PhotoURLs    pq.StringArray `gorm:"column:photo_urls;type:text[]"`
	TagIDs       pq.Int64Array  `gorm:"column:tag_ids;type:bigint[]"`
	TagNames     pq.StringArray `gorm:"column:tag_names;type:text[]"`
	Status       string         `gorm:"column:status;type:varchar(32);index"`
	AdoptedBy    *int64         `gorm:"column:adopted_by"`
	AdoptionDate *time.Time     `gorm:"column:adoption_date"`
	CreatedAt    time.Time      `gorm:"column:created_at"`
	UpdatedAt    time.Time      `gorm:"column:updated_at"`
}

func (petRecord) TableName() string { return "pets" }

// Application schema mirrors the adoptions Postgres adapter. The composite
// unique index on (user_id, pet_id) backs the duplicate-submission guarantee.
type applicationRecord struct {
	ID          string     `gorm:"primaryKey;column:id;type:uuid"`
	UserID      int64      `gorm:"column:user_id;uniqueIndex:idx_applications_user_pet;index"`
	PetID       int64      `gorm:"column:pet_id;uniqueIndex:idx_applications_user_pet;index:idx_applications_pet_status"`
	Status      string     `gorm:"column:status;type:varchar(16);index:idx_applications_pet_status"`
	UserMessage string     `gorm:"column:user_message"`
	AdminNotes  string     `gorm:"column:admin_notes"`
	AppliedDate time.Time  `gorm:"column:applied_date"`
	DecidedDate *time.Time `gorm:"column:decided_date"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at"`
}

func (applicationRecord) TableName() string { return "adoption_applications" }

// User schema mirrors the users Postgres adapter.
type userRecord struct {
	ID           int64     `gorm:"primaryKey;column:id"`
	Username     string    `gorm:"column:username;uniqueIndex"`
	FirstName    string    `gorm:"column:first_name"`
	LastName     string    `gorm:"column:last_name"`
	Email        string    `gorm:"column:email"`
	PasswordHash string    `gorm:"column:password_hash"`
	Phone        string    `gorm:"column:phone"`
	Role         string    `gorm:"column:role;type:varchar(16)"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (userRecord) TableName() string { return "users" }

// Session schema mirrors the session store.
type sessionRecord struct {
	Token     string     `gorm:"primaryKey;column:token;size:512"`
	Username  string     `gorm:"column:username;index"`
	ExpiresAt *time.Time `gorm:"column:expires_at;index"`
	CreatedAt time.Time  `gorm:"column:created_at;index"`
	UpdatedAt time.Time  `gorm:"column:updated_at;index"`
}

func (sessionRecord) TableName() string { return "user_sessions" }
