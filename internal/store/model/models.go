package model

import (
	"time"

	"gorm.io/datatypes"
)

// ProfileModel maps to 'profiles'. Rows are insert-only; a re-assessment
// adds a new row for the same respondent.
type ProfileModel struct {
	ID               string         `gorm:"column:id;primaryKey"`
	RespondentID     string         `gorm:"column:respondent_id;index:idx_profile_respondent,priority:1"`
	Name             string         `gorm:"column:name"`
	Email            string         `gorm:"column:email"`
	Country          string         `gorm:"column:country"`
	Modality         string         `gorm:"column:modality"`
	PrimaryDimension string         `gorm:"column:primary_dimension"`
	FinalType        string         `gorm:"column:final_type;index"`
	ScoresJSON       datatypes.JSON `gorm:"column:scores;type:TEXT"`
	PercentagesJSON  datatypes.JSON `gorm:"column:percentages;type:TEXT"`
	ConfidenceJSON   datatypes.JSON `gorm:"column:confidence;type:TEXT"`
	CompletedAtUnix  int64          `gorm:"column:completed_at;index:idx_profile_respondent,priority:2"`
	CreatedAtUnix    int64          `gorm:"column:created_at"`
}

func (ProfileModel) TableName() string { return "profiles" }

type TeamModel struct {
	ID            string `gorm:"column:id;primaryKey"`
	Name          string `gorm:"column:name"`
	ProjectType   string `gorm:"column:project_type"`
	CreatedAtUnix int64  `gorm:"column:created_at"`
	UpdatedAtUnix int64  `gorm:"column:updated_at"`

	CreatedAt time.Time `gorm:"-"`
	UpdatedAt time.Time `gorm:"-"`
}

func (TeamModel) TableName() string { return "teams" }

type TeamMemberModel struct {
	ID          int64  `gorm:"column:id;primaryKey;autoIncrement"`
	TeamID      string `gorm:"column:team_id;index"`
	Position    int    `gorm:"column:position"`
	ProfileID   string `gorm:"column:profile_id"`
	DisplayName string `gorm:"column:display_name"`
	TypeCode    string `gorm:"column:type_code"`
	Country     string `gorm:"column:country"`
}

func (TeamMemberModel) TableName() string { return "team_members" }

// SessionModel keeps the whole session value in ContextJSON so a
// conversation can resume from any state.
type SessionModel struct {
	ID            string         `gorm:"column:id;primaryKey"`
	State         string         `gorm:"column:state"`
	Language      string         `gorm:"column:language"`
	ContextJSON   datatypes.JSON `gorm:"column:context;type:TEXT"`
	ProfileID     string         `gorm:"column:profile_id"`
	CreatedAtUnix int64          `gorm:"column:created_at"`
	UpdatedAtUnix int64          `gorm:"column:updated_at;index"`
}

func (SessionModel) TableName() string { return "sessions" }
