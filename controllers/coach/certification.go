package coachController

import (
	"coachhub/database"
	"coachhub/middleware"
	"coachhub/models"
	"coachhub/utils"
	coachValidator "coachhub/validators/coach"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type certificationRow struct {
	models.Certification
	CoachName string `json:"coach_name"`
}

func certificationQuery(db *gorm.DB) *gorm.DB {
	return db.Table("certifications").
		Select("certifications.*, coaches.name AS coach_name").
		Joins("LEFT JOIN coaches ON coaches.id = certifications.coach_id")
}

func ListCertifications(c *fiber.Ctx) error {
	db := database.Database.Db
	paging := utils.ResolvePaging(c)

	query := certificationQuery(db)
	coachID, ok, err := utils.QueryUint(c, "coach_id")
	if err != nil {
		return err
	}
	if ok {
		query = query.Where("certifications.coach_id = ?", coachID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("certifications.status = ?", status)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	rows := []certificationRow{}
	// rows without expiry sort last
	if err := query.Order("certifications.expiry_date IS NULL, certifications.expiry_date asc").
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

func GetCertification(c *fiber.Ctx) error {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		return err
	}

	var row certificationRow
	res := certificationQuery(database.Database.Db).Where("certifications.id = ?", id).Limit(1).Scan(&row)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrNotFound("資格が見つかりません")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "", row)
}

func CreateCertification(c *fiber.Ctx) error {
	reqData := c.Locals("validatedCertification").(*coachValidator.CreateCertificationRequest)
	db := database.Database.Db

	if err := utils.MustExist(db, &models.Coach{}, reqData.CoachID, "コーチが見つかりません"); err != nil {
		return err
	}

	expiry := reqData.ExpiryDate
	if expiry != nil && *expiry == "" {
		expiry = nil
	}
	cert := models.Certification{
		CoachID:           reqData.CoachID,
		Name:              reqData.Name,
		Issuer:            reqData.Issuer,
		CertificateNumber: reqData.CertificateNumber,
		IssuedDate:        reqData.IssuedDate,
		ExpiryDate:        expiry,
		Status:            models.CertificationStatus(expiry, utils.Now()),
		Notes:             reqData.Notes,
	}
	if err := db.Create(&cert).Error; err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "資格を登録しました", cert)
}

// UpdateCertification applies the patch and re-derives the status from the stored expiry.
func UpdateCertification(c *fiber.Ctx) error {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		return err
	}
	reqData := c.Locals("validatedCertificationUpdate").(*coachValidator.UpdateCertificationRequest)
	db := database.Database.Db

	var cert models.Certification
	if err := utils.FirstOrNotFound(db, &cert, id, "資格が見つかりません"); err != nil {
		return err
	}

	updates := map[string]interface{}{"updated_at": utils.Now()}
	if reqData.Name != nil {
		updates["name"] = strings.TrimSpace(*reqData.Name)
	}
	if reqData.Issuer != nil {
		updates["issuer"] = *reqData.Issuer
	}
	if reqData.CertificateNumber != nil {
		updates["certificate_number"] = *reqData.CertificateNumber
	}
	if reqData.IssuedDate != nil {
		updates["issued_date"] = *reqData.IssuedDate
	}
	if reqData.Notes != nil {
		updates["notes"] = *reqData.Notes
	}
	expiry := cert.ExpiryDate
	if reqData.ExpiryDate != nil {
		if *reqData.ExpiryDate == "" {
			expiry = nil
			updates["expiry_date"] = gorm.Expr("NULL")
		} else {
			expiry = reqData.ExpiryDate
			updates["expiry_date"] = *reqData.ExpiryDate
		}
	}
	updates["status"] = models.CertificationStatus(expiry, utils.Now())

	if err := db.Model(&cert).Updates(updates).Error; err != nil {
		return err
	}
	if err := db.First(&cert, id).Error; err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "資格を更新しました", cert)
}

func DeleteCertification(c *fiber.Ctx) error {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		return err
	}
	db := database.Database.Db

	res := db.Delete(&models.Certification{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrNotFound("資格が見つかりません")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "資格を削除しました", nil)
}
