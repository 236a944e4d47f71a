package models

import "time"

type Course struct {
	ID                   uint      `json:"id" gorm:"primaryKey"`
	Title                string    `json:"title" gorm:"size:256;not null"`
	Category             string    `json:"category" gorm:"size:64;not null;index"`
	Description          string    `json:"description" gorm:"type:text"`
	ThumbnailURL         string    `json:"thumbnail_url" gorm:"size:512"`
	VideoURL             string    `json:"video_url" gorm:"size:512"`
	KeySkills            string    `json:"key_skills" gorm:"type:text"`
	ProgrammingLanguages string    `json:"programming_languages" gorm:"size:256"`
	CourseDuration       string    `json:"course_duration" gorm:"size:64"`
	TotalSessions        string    `json:"total_sessions" gorm:"size:32"`
	SessionDuration      string    `json:"session_duration" gorm:"size:64"`
	Level                string    `json:"level" gorm:"size:32;default:Beginner"`
	TargetAudience       string    `json:"target_audience" gorm:"size:256"`
	Mode                 string    `json:"mode" gorm:"size:32;default:Virtual"`
	CourseContents       string    `json:"course_contents" gorm:"type:text"`
	WhatYouWillLearn     string    `json:"what_you_will_learn" gorm:"type:text"`
	Archived             bool      `json:"archived" gorm:"default:false;index"`
	CreatedAt            time.Time `json:"created_at"`
}
