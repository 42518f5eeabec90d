package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// newID preenche a chave primária antes do insert (postgres e sqlite).
func newID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}

func (c *Company) BeforeCreate(_ *gorm.DB) error {
	newID(&c.ID)
	return nil
}

func (u *User) BeforeCreate(_ *gorm.DB) error {
	newID(&u.ID)
	return nil
}

func (c *Client) BeforeCreate(_ *gorm.DB) error {
	newID(&c.ID)
	return nil
}

func (s *Service) BeforeCreate(_ *gorm.DB) error {
	newID(&s.ID)
	return nil
}

func (t *Ticket) BeforeCreate(_ *gorm.DB) error {
	newID(&t.ID)
	return nil
}

func (s *IntegrationSettings) BeforeCreate(_ *gorm.DB) error {
	newID(&s.ID)
	return nil
}

func (a *AuditLog) BeforeCreate(_ *gorm.DB) error {
	newID(&a.ID)
	return nil
}
