// Package models defines data structures for the Loopin planning database.
package models

import (
	"time"

	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// ProjectStatus is the lifecycle state of a project.
type ProjectStatus string

const (
	StatusDraft     ProjectStatus = "draft"
	StatusPublished ProjectStatus = "published"
)

// Persona selects the behavioral profile of the AI partner.
type Persona string

const (
	PersonaLogical    Persona = "logical"
	PersonaChallenger Persona = "challenger"
	PersonaMentor     Persona = "mentor"
	PersonaFriend     Persona = "friend"
)

// Personas lists all valid persona identifiers.
var Personas = []Persona{PersonaLogical, PersonaChallenger, PersonaMentor, PersonaFriend}

// Valid reports whether p is one of the known personas.
func (p Persona) Valid() bool {
	switch p {
	case PersonaLogical, PersonaChallenger, PersonaMentor, PersonaFriend:
		return true
	}
	return false
}

// Attributes holds the business-context answers collected by the setup wizard.
// All fields are optional free-form text.
type Attributes struct {
	Genre            string   `json:"genre,omitempty"`
	BusinessModel    string   `json:"businessModel,omitempty"`
	RevenueGoal      string   `json:"revenueGoal,omitempty"`
	StartTiming      string   `json:"startTiming,omitempty"`
	Strengths        []string `json:"strengths,omitempty"`
	MarketChallenges string   `json:"marketChallenges,omitempty"`
	DecisionStyle    string   `json:"decisionStyle,omitempty"` // "intuition" or "logic"
	OrganizationType string   `json:"organizationType,omitempty"`
}

// PlanData is the structured business plan extracted from a conversation.
// A new extraction replaces the whole record; there is no field-level merge.
type PlanData struct {
	ServiceName      string `json:"serviceName"`
	Overview         string `json:"overview"`
	TargetMarket     string `json:"targetMarket"`
	ValueProposition string `json:"valueProposition"`
	Competitors      string `json:"competitors"`
	RevenueModel     string `json:"revenueModel"`
	Milestones       string `json:"milestones"`
}

// AnalysisScores holds the six 0-100 evaluation dimensions for a plan.
type AnalysisScores struct {
	Feasibility   int `json:"feasibility"`
	MarketSize    int `json:"marketSize"`
	Innovation    int `json:"innovation"`
	Profitability int `json:"profitability"`
	Scalability   int `json:"scalability"`
	TeamFit       int `json:"teamFit"`
}

// Project is one business idea with its chat thread, plan, and scores.
type Project struct {
	ID            surrealmodels.RecordID `json:"id"`
	UserID        string                 `json:"user_id"`
	Title         string                 `json:"title"`
	Status        ProjectStatus          `json:"status"`
	AIPersonality Persona                `json:"ai_personality"`
	Attributes    *Attributes            `json:"attributes,omitempty"`
	PlanData      *PlanData              `json:"plan_data,omitempty"`
	Scores        *AnalysisScores        `json:"analysis_scores,omitempty"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`
}

// ProjectInput holds the fields required to create a project.
type ProjectInput struct {
	UserID        string
	Title         string
	AIPersonality Persona
	Attributes    *Attributes
}
