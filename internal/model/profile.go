// Copyright (c) 2025 Carewell Health
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// ResponseStyle controls how verbose the assistant's replies are.
const (
	ResponseStyleConcise  = "concise"
	ResponseStyleDetailed = "detailed"
)

// Profile is the user's health profile as stored by the service. All fields
// are optional; the server tolerates partial updates.
type Profile struct {
	Name                      string `json:"name,omitempty"`
	Age                       int    `json:"age,omitempty"`
	Gender                    string `json:"gender,omitempty"`
	Weight                    string `json:"weight,omitempty"`
	HealthConditions          string `json:"health_conditions,omitempty"`
	Birthmarks                string `json:"birthmarks,omitempty"`
	FamilyMedicationHistory   string `json:"family_medication_history,omitempty"`
	PreviousMedicationHistory string `json:"previous_medication_history,omitempty"`
	ResponseStyle             string `json:"response_style,omitempty"`
}
