package handlers

import (
	"errors"
	"net/http"

	executionRepo "chime/database/repository/execution"
	ruleRepo "chime/database/repository/rule"
	"chime/models"
	"chime/services/reminder"
	"chime/utils"

	"github.com/gin-gonic/gin"
)

// ReminderHandler exposes the rule-management and feedback API.
type ReminderHandler struct {
	Service reminder.ReminderService
}

// CreateRule creates a new reminder rule for the authenticated owner.
func (h *ReminderHandler) CreateRule(c *gin.Context) {
	var rule models.ReminderRule
	if err := c.ShouldBindJSON(&rule); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid rule payload", err.Error())
		return
	}
	if ownerID := c.GetString("ownerID"); ownerID != "" {
		rule.OwnerID = ownerID
	}

	created, err := h.Service.CreateRule(&rule)
	if err != nil {
		var ruleErr *reminder.RuleError
		if errors.As(err, &ruleErr) {
			utils.JSONError(c, http.StatusBadRequest, "invalid rule", ruleErr.Message)
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "failed to create rule", err.Error())
		return
	}
	c.JSON(http.StatusCreated, created)
}

// UpdateRule applies a partial update to an existing rule.
func (h *ReminderHandler) UpdateRule(c *gin.Context) {
	var upd models.RuleUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid update payload", err.Error())
		return
	}

	updated, err := h.Service.UpdateRule(c.Param("id"), upd)
	if err != nil {
		if errors.Is(err, ruleRepo.ErrRuleNotFound) {
			utils.JSONError(c, http.StatusNotFound, "rule not found", c.Param("id"))
			return
		}
		var ruleErr *reminder.RuleError
		if errors.As(err, &ruleErr) {
			utils.JSONError(c, http.StatusBadRequest, "invalid rule", ruleErr.Message)
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "failed to update rule", err.Error())
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteRule removes a rule and cancels its pending reminders.
func (h *ReminderHandler) DeleteRule(c *gin.Context) {
	if err := h.Service.DeleteRule(c.Param("id")); err != nil {
		if errors.Is(err, ruleRepo.ErrRuleNotFound) {
			utils.JSONError(c, http.StatusNotFound, "rule not found", c.Param("id"))
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "failed to delete rule", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// ListRules returns the owner's rules.
func (h *ReminderHandler) ListRules(c *gin.Context) {
	ownerID := h.ownerID(c)
	if ownerID == "" {
		utils.JSONError(c, http.StatusBadRequest, "ownerId is required", "")
		return
	}
	rules, err := h.Service.ListRules(ownerID)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to list rules", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"rules": rules})
}

// ListExecutions returns the owner's scheduled and historical reminders,
// ascending by target time.
func (h *ReminderHandler) ListExecutions(c *gin.Context) {
	ownerID := h.ownerID(c)
	if ownerID == "" {
		utils.JSONError(c, http.StatusBadRequest, "ownerId is required", "")
		return
	}
	execs, err := h.Service.ListExecutions(ownerID)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to list executions", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"executions": execs})
}

// RecordAck records recipient acknowledgement on an execution by key.
func (h *ReminderHandler) RecordAck(c *gin.Context) {
	key := c.Param("key")
	if err := h.Service.RecordAck(key); err != nil {
		if errors.Is(err, executionRepo.ErrExecutionNotFound) {
			utils.JSONError(c, http.StatusNotFound, "execution not found", key)
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "failed to record ack", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "acknowledged"})
}

func (h *ReminderHandler) ownerID(c *gin.Context) string {
	if id := c.GetString("ownerID"); id != "" {
		return id
	}
	return c.Query("ownerId")
}
