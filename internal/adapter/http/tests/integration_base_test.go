//go:build integration
// +build integration

package tests

import (
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/suite"

	"taskflow/internal/adapter/db/dbtest"
)

// IntegrationSuiteBase gives each suite its own migrated database.
type IntegrationSuiteBase struct {
	suite.Suite

	database *dbtest.Database
	DB       *sqlx.DB
}

func (s *IntegrationSuiteBase) SetupSuite() {
	s.database = dbtest.Open(s.T(), "http")
	s.DB = s.database.DB
}

func (s *IntegrationSuiteBase) ResetDatabase() {
	s.database.Reset(s.T())
}
