package dto

type UpdateProfileRequest struct {
	Nickname          *string `json:"nickname"`
	FCMToken          *string `json:"fcm_token"`
	PersonalAlarmLead *int    `json:"personal_alarm_lead" binding:"omitempty,gte=0"`
	TeamAlarmLead     *int    `json:"team_alarm_lead" binding:"omitempty,gte=0"`
}
