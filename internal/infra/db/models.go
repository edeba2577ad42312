package db

import "time"

type AuthorizedDappModel struct {
	DappDefinitionAddress string `gorm:"primaryKey"`
	DisplayName           string `gorm:"not null"`
}

func (AuthorizedDappModel) TableName() string {
	return "authorized_dapps"
}

type AuthorizedPersonaModel struct {
	DappDefinitionAddress    string `gorm:"primaryKey"`
	IdentityAddress          string `gorm:"primaryKey"`
	SharedAccountsQuantifier *string
	SharedAccountsQuantity   *int
	LastLogin                time.Time `gorm:"not null"`
}

func (AuthorizedPersonaModel) TableName() string {
	return "authorized_personas"
}

type SharedAccountModel struct {
	DappDefinitionAddress string `gorm:"primaryKey"`
	IdentityAddress       string `gorm:"primaryKey"`
	Ordinal               int    `gorm:"primaryKey"`
	AccountAddress        string `gorm:"not null"`
}

func (SharedAccountModel) TableName() string {
	return "shared_accounts"
}

type SharedPersonaDataEntryModel struct {
	DappDefinitionAddress string `gorm:"primaryKey"`
	IdentityAddress       string `gorm:"primaryKey"`
	EntryID               string `gorm:"primaryKey"`
}

func (SharedPersonaDataEntryModel) TableName() string {
	return "shared_persona_data_entries"
}

type PersonaModel struct {
	IdentityAddress string `gorm:"primaryKey"`
	Label           string `gorm:"not null"`
}

func (PersonaModel) TableName() string {
	return "personas"
}

type PersonaDataEntryModel struct {
	EntryID         string `gorm:"type:uuid;primaryKey"`
	IdentityAddress string `gorm:"index;not null"`
	Ordinal         int    `gorm:"not null"`
	Kind            string `gorm:"not null"`
	Value           string `gorm:"not null"`
}

func (PersonaDataEntryModel) TableName() string {
	return "persona_data_entries"
}

type AccountModel struct {
	Address      string `gorm:"primaryKey"`
	Label        string `gorm:"not null"`
	AppearanceID uint8  `gorm:"not null"`
}

func (AccountModel) TableName() string {
	return "accounts"
}
