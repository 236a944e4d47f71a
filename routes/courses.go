package routes

import (
	"strings"

	"brainhr-server/models"
	"brainhr-server/storage"
	"brainhr-server/utils"

	"github.com/kataras/iris/v12"
)

// AdminListCourses shows non-archived courses, optionally filtered by
// category.
func AdminListCourses(ctx iris.Context) {
	query := storage.DB.Where("archived = ?", false)
	if category := ctx.URLParam("category"); category != "" {
		query = query.Where("category = ?", category)
	}

	var courses []models.Course
	if err := query.Order("created_at DESC").Find(&courses).Error; err != nil {
		utils.LogStoreError(ctx, "list courses", err)
		return
	}
	ctx.JSON(courses)
}

// readCourseFields accepts either a JSON body or multipart form data, the
// latter possibly carrying a thumbnail image.
func readCourseFields(ctx iris.Context, course *models.Course) error {
	get := func(key string) string { return ctx.FormValue(key) }
	if strings.Contains(ctx.GetContentTypeRequested(), "application/json") {
		var body map[string]string
		if err := ctx.ReadJSON(&body); err != nil {
			return err
		}
		get = func(key string) string { return body[key] }
	}

	course.Title = get("title")
	course.Category = get("category")
	course.Description = get("description")
	course.VideoURL = get("video_url")
	course.KeySkills = get("key_skills")
	course.ProgrammingLanguages = get("programming_languages")
	course.CourseDuration = get("course_duration")
	course.TotalSessions = get("total_sessions")
	course.SessionDuration = get("session_duration")
	course.TargetAudience = get("target_audience")
	course.CourseContents = get("course_contents")
	course.WhatYouWillLearn = get("what_you_will_learn")
	if v := get("level"); v != "" {
		course.Level = v
	} else if course.Level == "" {
		course.Level = "Beginner"
	}
	if v := get("mode"); v != "" {
		course.Mode = v
	} else if course.Mode == "" {
		course.Mode = "Virtual"
	}
	if v := get("thumbnail_url"); v != "" {
		course.ThumbnailURL = v
	}
	return nil
}

// saveThumbnail stores an uploaded thumbnail if present and returns its
// public URL, or "" when none was sent.
func saveThumbnail(ctx iris.Context) (string, error) {
	file, header, err := ctx.FormFile("thumbnail")
	if err != nil || header.Filename == "" {
		return "", nil
	}
	defer file.Close()

	stored, err := storage.SaveUpload(file, "thumbnail", header.Filename)
	if err != nil {
		return "", err
	}
	return "/uploads/" + stored, nil
}

func CreateCourse(ctx iris.Context) {
	var course models.Course
	if err := readCourseFields(ctx, &course); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}
	if course.Title == "" || course.Category == "" {
		utils.JSONError(ctx, iris.StatusBadRequest, "bad_request",
			"Missing required fields: title and category")
		return
	}

	if url, err := saveThumbnail(ctx); err != nil {
		utils.LogStoreError(ctx, "save thumbnail", err)
		return
	} else if url != "" {
		course.ThumbnailURL = url
	}

	if err := storage.DB.Create(&course).Error; err != nil {
		utils.LogStoreError(ctx, "create course", err)
		return
	}

	utils.Audit(ctx, "create", "course", course.ID, nil, course)
	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{"success": true, "course_id": course.ID})
}

func UpdateCourse(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, iris.StatusBadRequest, "bad_request", "invalid course id")
		return
	}

	var course models.Course
	if err := storage.DB.First(&course, id).Error; err != nil {
		utils.JSONError(ctx, iris.StatusNotFound, "not_found", "Course not found")
		return
	}
	before := course

	if err := readCourseFields(ctx, &course); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}
	if course.Title == "" || course.Category == "" {
		utils.JSONError(ctx, iris.StatusBadRequest, "bad_request",
			"Missing required fields: title and category")
		return
	}

	if url, thumbErr := saveThumbnail(ctx); thumbErr != nil {
		utils.LogStoreError(ctx, "save thumbnail", thumbErr)
		return
	} else if url != "" {
		course.ThumbnailURL = url
	}

	if err := storage.DB.Save(&course).Error; err != nil {
		utils.LogStoreError(ctx, "update course", err)
		return
	}

	utils.Audit(ctx, "update", "course", id, before, course)
	ctx.JSON(iris.Map{"success": true, "message": "Course updated.", "course_id": id})
}

func ArchiveCourse(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, iris.StatusBadRequest, "bad_request", "invalid course id")
		return
	}
	err = storage.DB.Model(&models.Course{}).Where("id = ?", id).
		Update("archived", true).Error
	if err != nil {
		utils.LogStoreError(ctx, "archive course", err)
		return
	}
	utils.Audit(ctx, "archive", "course", id, nil, nil)
	ctx.JSON(iris.Map{"success": true, "message": "Course archived."})
}

func DeleteCourse(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, iris.StatusBadRequest, "bad_request", "invalid course id")
		return
	}
	if err := storage.DB.Delete(&models.Course{}, id).Error; err != nil {
		utils.LogStoreError(ctx, "delete course", err)
		return
	}
	utils.Audit(ctx, "delete", "course", id, nil, nil)
	ctx.JSON(iris.Map{"success": true, "message": "Course deleted."})
}

// PublicCourses is the catalog: optional ?category= filter plus a
// case-insensitive ?search= over title and description.
func PublicCourses(ctx iris.Context) {
	query := storage.DB.Model(&models.Course{})
	if category := ctx.URLParam("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if search := strings.ToLower(ctx.URLParam("search")); search != "" {
		like := "%" + search + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	var courses []models.Course
	if err := query.Order("created_at DESC").Find(&courses).Error; err != nil {
		utils.LogStoreError(ctx, "list public courses", err)
		return
	}
	ctx.JSON(courses)
}
