package routes

import (
	"fmt"
	"os"

	"brainhr-server/models"
	"brainhr-server/storage"
	"brainhr-server/utils"

	"github.com/kataras/iris/v12"
)

func EmployeeListVisaDocs(ctx iris.Context) {
	caller, ok := utils.CallerIdentity(ctx)
	if !ok {
		utils.JSONError(ctx, iris.StatusUnauthorized, "unauthorized", "login required")
		return
	}

	var docs []models.VisaDoc
	err := storage.DB.Where("employee_id = ?", caller.ID).
		Order("created_at DESC").Find(&docs).Error
	if err != nil {
		utils.LogStoreError(ctx, "list visa docs", err)
		return
	}
	ctx.JSON(docs)
}

func UploadVisaDoc(ctx iris.Context) {
	caller, ok := utils.CallerIdentity(ctx)
	if !ok {
		utils.JSONError(ctx, iris.StatusUnauthorized, "unauthorized", "login required")
		return
	}

	file, header, err := ctx.FormFile("file")
	if err != nil {
		utils.JSONError(ctx, iris.StatusBadRequest, "bad_request", "File is required")
		return
	}
	defer file.Close()

	docName := ctx.FormValue("doc_name")
	if docName == "" {
		utils.JSONError(ctx, iris.StatusBadRequest, "bad_request", "Document name is required")
		return
	}
	visaType := ctx.FormValue("visa_type")

	prefix := fmt.Sprintf("visa_doc_%d", caller.ID)
	stored, err := storage.SaveUpload(file, prefix, header.Filename)
	if err != nil {
		if err == storage.ErrFileTooLarge {
			utils.JSONError(ctx, iris.StatusRequestEntityTooLarge, "too_large", "File exceeds the size limit")
			return
		}
		utils.LogStoreError(ctx, "save visa doc", err)
		return
	}
	path, _ := storage.UploadPath(stored)

	doc := models.VisaDoc{
		EmployeeID: caller.ID,
		Filename:   stored,
		FilePath:   path,
		DocName:    docName,
		VisaType:   visaType,
	}
	if err := storage.DB.Create(&doc).Error; err != nil {
		utils.LogStoreError(ctx, "create visa doc", err)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{"success": true, "doc_id": doc.ID})
}

type visaDocWithEmployee struct {
	models.VisaDoc
	EmployeeName string `json:"employee_name"`
	Username     string `json:"username"`
}

func AdminListVisaDocs(ctx iris.Context) {
	query := storage.DB.Model(&models.VisaDoc{}).
		Select("visa_docs.*, employees.employee_name, employees.username").
		Joins("JOIN employees ON employees.id = visa_docs.employee_id")
	if employeeID := ctx.URLParam("employee_id"); employeeID != "" {
		query = query.Where("visa_docs.employee_id = ?", employeeID)
	}

	var docs []visaDocWithEmployee
	err := query.Order("visa_docs.created_at DESC").Scan(&docs).Error
	if err != nil {
		utils.LogStoreError(ctx, "list admin visa docs", err)
		return
	}
	if docs == nil {
		docs = []visaDocWithEmployee{}
	}
	ctx.JSON(docs)
}

func DownloadVisaDoc(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, iris.StatusBadRequest, "bad_request", "invalid document id")
		return
	}

	var doc models.VisaDoc
	if err := storage.DB.First(&doc, id).Error; err != nil {
		utils.JSONError(ctx, iris.StatusNotFound, "not_found", "Document not found")
		return
	}
	if _, statErr := os.Stat(doc.FilePath); statErr != nil {
		utils.JSONError(ctx, iris.StatusNotFound, "not_found", "Document not found")
		return
	}
	ctx.SendFile(doc.FilePath, doc.Filename)
}
