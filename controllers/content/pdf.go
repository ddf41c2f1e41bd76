package contentController

import (
	"coachhub/database"
	"coachhub/middleware"
	"coachhub/models"
	"coachhub/utils"
	contentValidator "coachhub/validators/content"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const pdfNotFound = "PDF教材が見つかりません"

type pdfRow struct {
	models.PDFMaterial
	ViewCount     int64 `json:"view_count"`
	DownloadCount int64 `json:"download_count"`
}

func pdfQuery(db *gorm.DB) *gorm.DB {
	return db.Table("pdf_materials").
		Select("pdf_materials.*, COALESCE(pdf_stats.view_count, 0) AS view_count, COALESCE(pdf_stats.download_count, 0) AS download_count").
		Joins("LEFT JOIN pdf_stats ON pdf_stats.pdf_material_id = pdf_materials.id")
}

func ListPDFs(c *fiber.Ctx) error {
	db := database.Database.Db
	paging := utils.ResolvePaging(c)

	query, err := contentFilters(c, pdfQuery(db), "pdf_materials", "category", "sport")
	if err != nil {
		return err
	}
	if raw := c.Query("is_downloadable"); raw != "" {
		downloadable, err := strconv.ParseBool(raw)
		if err != nil {
			return utils.ErrBadRequest("is_downloadable の値が不正です")
		}
		query = query.Where("pdf_materials.is_downloadable = ?", downloadable)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	rows := []pdfRow{}
	if err := query.Order("pdf_materials.created_at desc, pdf_materials.id desc").
		Limit(paging.Limit).Offset(paging.Offset).Scan(&rows).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":     true,
		"message":    "",
		"data":       rows,
		"pagination": utils.PaginationMap(total, paging),
	})
}

func loadPDF(db *gorm.DB, id uint) (*pdfRow, error) {
	var row pdfRow
	res := pdfQuery(db).Where("pdf_materials.id = ?", id).Limit(1).Scan(&row)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, utils.ErrNotFound(pdfNotFound)
	}
	return &row, nil
}

func GetPDF(c *fiber.Ctx) error {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		return err
	}

	row, err := loadPDF(database.Database.Db, id)
	if err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "", row)
}

func CreatePDF(c *fiber.Ctx) error {
	reqData := c.Locals("validatedPDF").(*contentValidator.CreatePDFRequest)
	db := database.Database.Db

	pdf := models.PDFMaterial{
		Title:          reqData.Title,
		FileURL:        reqData.FileURL,
		Description:    reqData.Description,
		Category:       reqData.Category,
		Level:          reqData.Level,
		Sport:          reqData.Sport,
		IsDownloadable: reqData.IsDownloadable == nil || *reqData.IsDownloadable,
		PageCount:      reqData.PageCount,
	}
	if err := db.Create(&pdf).Error; err != nil {
		return err
	}
	if err := db.Create(&models.PDFStats{PDFMaterialID: pdf.ID}).Error; err != nil {
		return err
	}

	row, err := loadPDF(db, pdf.ID)
	if err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "PDF教材を登録しました", row)
}

func UpdatePDF(c *fiber.Ctx) error {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		return err
	}
	reqData := c.Locals("validatedPDFUpdate").(*contentValidator.UpdatePDFRequest)
	db := database.Database.Db

	if err := utils.MustExist(db, &models.PDFMaterial{}, id, pdfNotFound); err != nil {
		return err
	}

	updates := map[string]interface{}{"updated_at": utils.Now()}
	if reqData.Title != nil {
		updates["title"] = strings.TrimSpace(*reqData.Title)
	}
	if reqData.FileURL != nil {
		updates["file_url"] = strings.TrimSpace(*reqData.FileURL)
	}
	if reqData.Description != nil {
		updates["description"] = *reqData.Description
	}
	if reqData.Category != nil {
		updates["category"] = *reqData.Category
	}
	if reqData.Level != nil {
		updates["level"] = *reqData.Level
	}
	if reqData.Sport != nil {
		updates["sport"] = *reqData.Sport
	}
	if reqData.IsDownloadable != nil {
		updates["is_downloadable"] = *reqData.IsDownloadable
	}
	if reqData.PageCount != nil {
		updates["page_count"] = *reqData.PageCount
	}

	if err := db.Model(&models.PDFMaterial{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return err
	}
	row, err := loadPDF(db, id)
	if err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "PDF教材を更新しました", row)
}

func DeletePDF(c *fiber.Ctx) error {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		return err
	}
	db := database.Database.Db

	if err := utils.MustExist(db, &models.PDFMaterial{}, id, pdfNotFound); err != nil {
		return err
	}
	if err := db.Where("pdf_material_id = ?", id).Delete(&models.PDFStats{}).Error; err != nil {
		return err
	}
	if err := db.Delete(&models.PDFMaterial{}, id).Error; err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "PDF教材を削除しました", nil)
}

// bumpPDFCounter adds one to column, creating the stats row when it is missing.
func bumpPDFCounter(db *gorm.DB, id uint, column string) (*models.PDFStats, error) {
	res := db.Model(&models.PDFStats{}).Where("pdf_material_id = ?", id).
		UpdateColumn(column, gorm.Expr(column+" + ?", 1))
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		stats := models.PDFStats{PDFMaterialID: id}
		if column == "download_count" {
			stats.DownloadCount = 1
		} else {
			stats.ViewCount = 1
		}
		if err := db.Create(&stats).Error; err != nil {
			return nil, err
		}
	}

	var stats models.PDFStats
	if err := db.Where("pdf_material_id = ?", id).First(&stats).Error; err != nil {
		return nil, err
	}
	return &stats, nil
}

func RecordPDFView(c *fiber.Ctx) error {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		return err
	}
	db := database.Database.Db

	if err := utils.MustExist(db, &models.PDFMaterial{}, id, pdfNotFound); err != nil {
		return err
	}
	stats, err := bumpPDFCounter(db, id, "view_count")
	if err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "", fiber.Map{
		"view_count":     stats.ViewCount,
		"download_count": stats.DownloadCount,
	})
}

// RecordPDFDownload counts a download and returns the file URL; 403 when downloads are off.
func RecordPDFDownload(c *fiber.Ctx) error {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		return err
	}
	db := database.Database.Db

	var pdf models.PDFMaterial
	if err := utils.FirstOrNotFound(db, &pdf, id, pdfNotFound); err != nil {
		return err
	}
	if !pdf.IsDownloadable {
		return utils.ErrForbidden("このPDF教材はダウンロードできません")
	}

	stats, err := bumpPDFCounter(db, id, "download_count")
	if err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "", fiber.Map{
		"file_url":       pdf.FileURL,
		"view_count":     stats.ViewCount,
		"download_count": stats.DownloadCount,
	})
}
