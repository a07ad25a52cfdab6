package services

import (
	"testing"

	"polizacrm/server/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeadBoardGroupsByStage(t *testing.T) {
	db := setupTestDB(t)
	svc := NewLeadService(db)

	require.NoError(t, svc.CreateLead(&models.Lead{Name: "Prospecto A"}))
	require.NoError(t, svc.CreateLead(&models.Lead{Name: "Prospecto B", Stage: models.LeadStageQuoted}))
	require.NoError(t, svc.CreateLead(&models.Lead{Name: "Prospecto C", Stage: models.LeadStageQuoted, Position: 1}))

	board, err := svc.GetBoard()
	require.NoError(t, err)

	assert.Len(t, board[models.LeadStageNew], 1)
	require.Len(t, board[models.LeadStageQuoted], 2)
	// Внутри колонки карточки упорядочены по позиции
	assert.Equal(t, "Prospecto B", board[models.LeadStageQuoted][0].Name)
	assert.Equal(t, "Prospecto C", board[models.LeadStageQuoted][1].Name)
}

func TestMoveLead(t *testing.T) {
	db := setupTestDB(t)
	svc := NewLeadService(db)

	lead := models.Lead{Name: "Prospecto"}
	require.NoError(t, svc.CreateLead(&lead))

	moved, err := svc.MoveLead(lead.ID, models.LeadStageWon, 3)
	require.NoError(t, err)
	assert.Equal(t, models.LeadStageWon, moved.Stage)
	assert.Equal(t, 3, moved.Position)
}

func TestMoveLeadRejectsUnknownStage(t *testing.T) {
	db := setupTestDB(t)
	svc := NewLeadService(db)

	lead := models.Lead{Name: "Prospecto"}
	require.NoError(t, svc.CreateLead(&lead))

	_, err := svc.MoveLead(lead.ID, "archived", 0)
	assert.Error(t, err)

	// Этап карточки не изменился
	saved, err := svc.GetLeadByID(lead.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LeadStageNew, saved.Stage)
}

func TestCreateLeadRejectsUnknownStage(t *testing.T) {
	db := setupTestDB(t)
	svc := NewLeadService(db)

	err := svc.CreateLead(&models.Lead{Name: "Prospecto", Stage: "backlog"})
	assert.Error(t, err)
}
