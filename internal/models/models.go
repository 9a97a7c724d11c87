package models

import "time"

// Ownable is implemented by resources that belong to a single user, so
// services can run a uniform ownership check.
type Ownable interface {
	GetUserID() uint
}

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"not null" json:"name"`
	CPF          string    `gorm:"uniqueIndex;not null" json:"cpf"`
	Birth        time.Time `gorm:"not null" json:"-"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	Password     string    `gorm:"not null" json:"-"` // bcrypt hash, never serialized
	Qualified    bool      `json:"qualified"`
	CEP          string    `json:"cep"`
	Neighborhood string    `json:"neighborhood"`
	Street       string    `json:"street"`
	Complement   string    `json:"complement"`
	City         string    `json:"city"`
	UF           string    `json:"uf"`
	Reserves     []Reserve `gorm:"foreignKey:UserID" json:"-"`
	CreatedAt    time.Time `json:"-"`
	UpdatedAt    time.Time `json:"-"`
}

type Car struct {
	ID                 uint        `gorm:"primaryKey" json:"id"`
	Model              string      `gorm:"not null" json:"model"`
	Color              string      `gorm:"not null" json:"color"`
	Year               int         `gorm:"not null" json:"year"`
	ValuePerDay        float64     `gorm:"not null" json:"valuePerDay"`
	NumberOfPassengers int         `gorm:"not null" json:"numberOfPassengers"`
	Accessories        []Accessory `gorm:"foreignKey:CarID;constraint:OnDelete:CASCADE" json:"accessories"`
	CreatedAt          time.Time   `json:"-"`
	UpdatedAt          time.Time   `json:"-"`
}

// Accessory belongs to exactly one car and is removed with it.
type Accessory struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Name  string `gorm:"not null" json:"name"`
	CarID uint   `gorm:"index" json:"-"`
}

// Reserve references its car and user; deleting a reserve touches neither.
type Reserve struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	StartDate  time.Time `gorm:"not null" json:"-"`
	EndDate    time.Time `gorm:"not null" json:"-"`
	FinalValue float64   `gorm:"not null" json:"finalValue"`
	CarID      uint      `gorm:"not null;index" json:"carId"`
	Car        Car       `gorm:"foreignKey:CarID" json:"-"`
	UserID     uint      `gorm:"not null;index" json:"userId"`
	User       User      `gorm:"foreignKey:UserID" json:"-"`
	CreatedAt  time.Time `json:"-"`
	UpdatedAt  time.Time `json:"-"`
}

func (r *Reserve) GetUserID() uint { return r.UserID }
