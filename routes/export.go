package routes

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"brainhr-server/models"
	"brainhr-server/storage"
	"brainhr-server/utils"

	"github.com/kataras/iris/v12"
	"github.com/xuri/excelize/v2"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportApplicationsExcel builds an .xlsx of applications. With an empty
// id list it exports everything.
func ExportApplicationsExcel(ctx iris.Context) {
	var input struct {
		ApplicationIDs []uint `json:"application_ids"`
	}
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	query := storage.DB.Model(&models.Application{})
	if len(input.ApplicationIDs) > 0 {
		query = query.Where("id IN ?", input.ApplicationIDs)
	}

	var applications []models.Application
	if err := query.Order("applied_at DESC").Find(&applications).Error; err != nil {
		utils.LogStoreError(ctx, "export applications", err)
		return
	}

	f := excelize.NewFile()
	defer f.Close()
	const sheet = "Applications"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Name", "Email", "Contact No", "LinkedIn", "Location",
		"Visa Status", "Relocation", "Experience Years", "Job Title", "Applied At"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}
	for row, a := range applications {
		values := []any{a.Name, a.Email, a.ContactNo, a.LinkedIn, a.Location,
			a.VisaStatus, a.Relocation, a.ExperienceYears, a.JobTitle,
			a.AppliedAt.Format("2006-01-02 15:04:05")}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	sendExcel(ctx, f, "applications.xlsx")
}

// ExportEnrollmentsExcel exports either the listed enrollments or every
// enrollment of a course.
func ExportEnrollmentsExcel(ctx iris.Context) {
	var input struct {
		CourseID      uint   `json:"course_id"`
		EnrollmentIDs []uint `json:"enrollment_ids"`
	}
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	query := storage.DB.Model(&models.CourseEnrollment{})
	if len(input.EnrollmentIDs) > 0 {
		query = query.Where("id IN ?", input.EnrollmentIDs)
	} else {
		query = query.Where("course_id = ?", input.CourseID)
	}

	var enrollments []models.CourseEnrollment
	if err := query.Order("enrolled_at DESC").Find(&enrollments).Error; err != nil {
		utils.LogStoreError(ctx, "export enrollments", err)
		return
	}

	f := excelize.NewFile()
	defer f.Close()
	const sheet = "Enrollments"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"ID", "Name", "Email", "Contact No", "Course ID", "Course Title", "Enrolled At"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}
	for row, e := range enrollments {
		values := []any{e.ID, e.Name, e.Email, e.ContactNo, e.CourseID, e.CourseTitle,
			e.EnrolledAt.Format("2006-01-02 15:04:05")}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	sendExcel(ctx, f, "enrollments.xlsx")
}

func sendExcel(ctx iris.Context, f *excelize.File, filename string) {
	buf, err := f.WriteToBuffer()
	if err != nil {
		utils.LogStoreError(ctx, "build excel", err)
		return
	}
	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	ctx.ContentType(xlsxContentType)
	ctx.Write(buf.Bytes())
}

// DownloadResumesZip bundles the selected applications' resumes and marks
// them viewed.
func DownloadResumesZip(ctx iris.Context) {
	var input BulkApplicationIDsInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var applications []models.Application
	err := storage.DB.Where("id IN ?", input.ApplicationIDs).Find(&applications).Error
	if err != nil {
		utils.LogStoreError(ctx, "load applications", err)
		return
	}
	err = storage.DB.Model(&models.Application{}).
		Where("id IN ?", input.ApplicationIDs).
		Update("viewed", true).Error
	if err != nil {
		utils.LogStoreError(ctx, "mark applications viewed", err)
		return
	}

	var entries []zipEntry
	for _, a := range applications {
		path, pathErr := storage.UploadPath(a.ResumeFilename)
		if pathErr != nil {
			continue
		}
		name := strings.ReplaceAll(a.Name, " ", "_") + "_" + a.ResumeFilename
		entries = append(entries, zipEntry{Path: path, Name: name})
	}
	sendZip(ctx, entries, "selected_resumes.zip")
}

func DownloadTimesheetsZip(ctx iris.Context) {
	var input struct {
		TimesheetIDs []uint `json:"timesheet_ids" validate:"required,min=1"`
	}
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var timesheets []models.Timesheet
	err := storage.DB.Where("id IN ?", input.TimesheetIDs).Find(&timesheets).Error
	if err != nil {
		utils.LogStoreError(ctx, "load timesheets", err)
		return
	}

	var entries []zipEntry
	for _, ts := range timesheets {
		entries = append(entries, zipEntry{Path: ts.FilePath, Name: ts.Filename})
	}
	sendZip(ctx, entries, "timesheets.zip")
}

func DownloadVisaDocsZip(ctx iris.Context) {
	var input struct {
		DocIDs []uint `json:"doc_ids" validate:"required,min=1"`
	}
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var docs []models.VisaDoc
	err := storage.DB.Where("id IN ?", input.DocIDs).Find(&docs).Error
	if err != nil {
		utils.LogStoreError(ctx, "load visa docs", err)
		return
	}

	var entries []zipEntry
	for _, doc := range docs {
		entries = append(entries, zipEntry{Path: doc.FilePath, Name: doc.Filename})
	}
	sendZip(ctx, entries, "visa_docs.zip")
}

type zipEntry struct {
	Path string
	Name string
}

// sendZip streams a zip of the entries that exist on disk. Missing files
// are skipped, matching the selected-ids semantics of the bulk endpoints.
func sendZip(ctx iris.Context, entries []zipEntry, filename string) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, entry := range entries {
		src, err := os.Open(entry.Path)
		if err != nil {
			continue
		}
		w, err := zw.Create(entry.Name)
		if err == nil {
			io.Copy(w, src)
		}
		src.Close()
	}
	if err := zw.Close(); err != nil {
		utils.LogStoreError(ctx, "build zip", err)
		return
	}

	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	ctx.ContentType("application/zip")
	ctx.Write(buf.Bytes())
}
