package models

import (
	"github.com/lib/pq"
	"gorm.io/gorm"
)

const (
	Experience0to2  = "0-2"
	Experience3to5  = "3-5"
	Experience6to10 = "6-10"
	Experience10Up  = "10+"
)

var ExperienceBrackets = []string{Experience0to2, Experience3to5, Experience6to10, Experience10Up}

type Specialization struct {
	gorm.Model
	Name        string `gorm:"column:name;size:100;not null;uniqueIndex" json:"name"`
	Description string `gorm:"column:description;type:text" json:"description"`
	Icon        string `gorm:"column:icon;size:50" json:"icon"`
}

type Advocate struct {
	gorm.Model
	UserID            uint           `gorm:"column:user_id;not null;uniqueIndex" json:"user_id"`
	BarCouncilID      string         `gorm:"column:bar_council_id;size:50;not null;uniqueIndex" json:"bar_council_id"`
	Experience        string         `gorm:"column:experience;size:10" json:"experience"`
	ConsultationFee   float64        `gorm:"column:consultation_fee;not null" json:"consultation_fee"`
	CourtAppearanceFee float64       `gorm:"column:court_appearance_fee;not null" json:"court_appearance_fee"`
	Bio               string         `gorm:"column:bio;type:text" json:"bio"`
	Languages         pq.StringArray `gorm:"column:languages;type:text[]" json:"languages"`
	Education         string         `gorm:"column:education;type:text" json:"education"`
	Certifications    string         `gorm:"column:certifications;type:text" json:"certifications"`
	SuccessRate       float64        `gorm:"column:success_rate;default:0" json:"success_rate"`
	TotalCases        int            `gorm:"column:total_cases;default:0" json:"total_cases"`
	Rating            float64        `gorm:"column:rating;default:0" json:"rating"`
	TotalReviews      int            `gorm:"column:total_reviews;default:0" json:"total_reviews"`
	IsAvailable       bool           `gorm:"column:is_available;default:true" json:"is_available"`
	Verified          bool           `gorm:"column:verified;default:false" json:"verified"`

	User            *User            `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Specializations []Specialization `gorm:"many2many:advocate_specializations;" json:"specializations,omitempty"`
}

func (Advocate) TableName() string {
	return "advocates"
}

// AdvocateAvailability is a weekly consultation window. It is advisory:
// booking creation does not validate against it.
type AdvocateAvailability struct {
	gorm.Model
	AdvocateID  uint   `gorm:"column:advocate_id;not null;uniqueIndex:idx_advocate_window" json:"advocate_id"`
	DayOfWeek   int    `gorm:"column:day_of_week;not null;uniqueIndex:idx_advocate_window" json:"day_of_week"`
	StartTime   string `gorm:"column:start_time;size:5;not null;uniqueIndex:idx_advocate_window" json:"start_time"`
	EndTime     string `gorm:"column:end_time;size:5;not null" json:"end_time"`
	IsAvailable bool   `gorm:"column:is_available;default:true" json:"is_available"`

	Advocate *Advocate `gorm:"foreignKey:AdvocateID" json:"-"`
}

func (AdvocateAvailability) TableName() string {
	return "advocate_availabilities"
}
