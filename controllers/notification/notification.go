package notificationController

import (
	"coachhub/database"
	"coachhub/middleware"
	"coachhub/models"
	"coachhub/utils"
	notificationValidator "coachhub/validators/notification"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const notificationNotFound = "通知が見つかりません"

// recipientQuery reads the recipient_type / recipient_id pair from the query string.
func recipientQuery(c *fiber.Ctx, required bool) (string, uint, bool, error) {
	recipientType := c.Query("recipient_type")
	recipientID, hasID, err := utils.QueryUint(c, "recipient_id")
	if err != nil {
		return "", 0, false, err
	}
	if recipientType == "" && !hasID {
		if required {
			return "", 0, false, utils.ErrMissingFields("recipient_type", "recipient_id")
		}
		return "", 0, false, nil
	}
	if recipientType == "" {
		return "", 0, false, utils.ErrMissingFields("recipient_type")
	}
	if !hasID {
		return "", 0, false, utils.ErrMissingFields("recipient_id")
	}
	if recipientType != models.RecipientCoach && recipientType != models.RecipientStudent {
		return "", 0, false, utils.ErrBadRequest("recipient_type の値が不正です")
	}
	return recipientType, recipientID, true, nil
}

func CreateNotification(c *fiber.Ctx) error {
	reqData := c.Locals("validatedNotification").(*utils.NotificationRequest)
	if reqData.Locale == "" {
		reqData.Locale = middleware.RequestLocale(c)
	}

	result, err := utils.CreateNotification(c.UserContext(), *reqData)
	if err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "通知を作成しました", result)
}

// SendBatchNotifications sends one notification per recipient concurrently and
// reports every outcome.
func SendBatchNotifications(c *fiber.Ctx) error {
	reqData := c.Locals("validatedNotificationBatch").(*notificationValidator.BatchNotificationRequest)
	if _, ok := utils.NotificationTemplates[reqData.Type]; !ok {
		return utils.ErrBadRequest("不明な通知タイプです: " + reqData.Type)
	}
	if reqData.Locale == "" {
		reqData.Locale = middleware.RequestLocale(c)
	}

	outcomes := utils.SendBatch(c.UserContext(), reqData.Requests())
	succeeded := 0
	for _, o := range outcomes {
		if o.Success {
			succeeded++
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "一括通知を処理しました", fiber.Map{
		"total":     len(outcomes),
		"succeeded": succeeded,
		"failed":    len(outcomes) - succeeded,
		"results":   outcomes,
	})
}

func ListNotifications(c *fiber.Ctx) error {
	db := database.Database.Db
	paging := utils.ResolvePaging(c)

	query := db.Model(&models.Notification{})
	recipientType, recipientID, ok, err := recipientQuery(c, false)
	if err != nil {
		return err
	}
	if ok {
		query = query.Where("recipient_type = ? AND recipient_id = ?", recipientType, recipientID)
	}
	if raw := c.Query("is_read"); raw != "" {
		read, err := strconv.ParseBool(raw)
		if err != nil {
			return utils.ErrBadRequest("is_read の値が不正です")
		}
		query = query.Where("is_read = ?", read)
	}
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if typ := c.Query("type"); typ != "" {
		query = query.Where("type = ?", typ)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	notifications := []models.Notification{}
	if err := query.Order("created_at desc, id desc").Limit(paging.Limit).Offset(paging.Offset).Find(&notifications).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":     true,
		"message":    "",
		"data":       notifications,
		"pagination": utils.PaginationMap(total, paging),
	})
}

func GetNotification(c *fiber.Ctx) error {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		return err
	}

	var n models.Notification
	if err := utils.FirstOrNotFound(database.Database.Db, &n, id, notificationNotFound); err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "", n)
}

func MarkAsRead(c *fiber.Ctx) error {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		return err
	}
	db := database.Database.Db

	var n models.Notification
	if err := utils.FirstOrNotFound(db, &n, id, notificationNotFound); err != nil {
		return err
	}
	if !n.IsRead {
		now := utils.Now()
		if err := db.Model(&n).Updates(map[string]interface{}{
			"is_read":    true,
			"read_at":    now,
			"updated_at": now,
		}).Error; err != nil {
			return err
		}
		if err := db.First(&n, id).Error; err != nil {
			return err
		}
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "既読にしました", n)
}

func MarkAllAsRead(c *fiber.Ctx) error {
	recipientType, recipientID, _, err := recipientQuery(c, true)
	if err != nil {
		return err
	}

	now := utils.Now()
	res := database.Database.Db.Model(&models.Notification{}).
		Where("recipient_type = ? AND recipient_id = ? AND is_read = ?", recipientType, recipientID, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": now, "updated_at": now})
	if res.Error != nil {
		return res.Error
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "すべて既読にしました", fiber.Map{
		"updated": res.RowsAffected,
	})
}

func UnreadCount(c *fiber.Ctx) error {
	recipientType, recipientID, _, err := recipientQuery(c, true)
	if err != nil {
		return err
	}

	var count int64
	if err := database.Database.Db.Model(&models.Notification{}).
		Where("recipient_type = ? AND recipient_id = ? AND is_read = ?", recipientType, recipientID, false).
		Count(&count).Error; err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "", fiber.Map{"unread_count": count})
}

func DeleteNotification(c *fiber.Ctx) error {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		return err
	}
	db := database.Database.Db

	if err := utils.MustExist(db, &models.Notification{}, id, notificationNotFound); err != nil {
		return err
	}
	if err := db.Where("notification_id = ?", id).Delete(&models.DeliveryLog{}).Error; err != nil {
		return err
	}
	if err := db.Delete(&models.Notification{}, id).Error; err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "通知を削除しました", nil)
}

func ListDeliveries(c *fiber.Ctx) error {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		return err
	}
	db := database.Database.Db

	if err := utils.MustExist(db, &models.Notification{}, id, notificationNotFound); err != nil {
		return err
	}
	logs := []models.DeliveryLog{}
	if err := db.Where("notification_id = ?", id).Order("id asc").Find(&logs).Error; err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "", logs)
}

func ListTemplates(c *fiber.Ctx) error {
	return middleware.JsonResponse(c, fiber.StatusOK, true, "", utils.SortedTemplates())
}
