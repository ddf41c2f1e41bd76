package contentController

import (
	"coachhub/config"
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

const videoNotFound = "動画が見つかりません"

type videoRow struct {
	models.Video
	ViewCount int64 `json:"view_count"`
}

func videoQuery(db *gorm.DB) *gorm.DB {
	return db.Table("videos").
		Select("videos.*, COALESCE(video_stats.view_count, 0) AS view_count").
		Joins("LEFT JOIN video_stats ON video_stats.video_id = videos.id")
}

// contentFilters applies the filters shared by videos and PDFs.
func contentFilters(c *fiber.Ctx, query *gorm.DB, table string, fields ...string) (*gorm.DB, error) {
	for _, field := range fields {
		if v := c.Query(field); v != "" {
			query = query.Where(table+"."+field+" = ?", v)
		}
	}
	if raw := c.Query("level"); raw != "" {
		level, err := strconv.Atoi(raw)
		if err != nil {
			return nil, utils.ErrBadRequest("level の値が不正です")
		}
		query = query.Where(table+".level = ?", level)
	}
	return query, nil
}

func ListVideos(c *fiber.Ctx) error {
	db := database.Database.Db
	paging := utils.ResolvePaging(c)

	query, err := contentFilters(c, videoQuery(db), "videos", "category", "sport", "training_type")
	if err != nil {
		return err
	}
	if raw := c.Query("is_published"); raw != "" {
		published, err := strconv.ParseBool(raw)
		if err != nil {
			return utils.ErrBadRequest("is_published の値が不正です")
		}
		query = query.Where("videos.is_published = ?", published)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	rows := []videoRow{}
	if err := query.Order("videos.created_at desc, videos.id desc").
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

func loadVideo(db *gorm.DB, id uint) (*videoRow, error) {
	var row videoRow
	res := videoQuery(db).Where("videos.id = ?", id).Limit(1).Scan(&row)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, utils.ErrNotFound(videoNotFound)
	}
	return &row, nil
}

func GetVideo(c *fiber.Ctx) error {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		return err
	}

	row, err := loadVideo(database.Database.Db, id)
	if err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "", row)
}

func CreateVideo(c *fiber.Ctx) error {
	reqData := c.Locals("validatedVideo").(*contentValidator.CreateVideoRequest)
	db := database.Database.Db

	video := models.Video{
		Title:           reqData.Title,
		URL:             reqData.URL,
		ThumbnailURL:    reqData.ThumbnailURL,
		Description:     reqData.Description,
		Category:        reqData.Category,
		Level:           reqData.Level,
		Sport:           reqData.Sport,
		TrainingType:    reqData.TrainingType,
		DurationSeconds: reqData.DurationSeconds,
		IsPublished:     reqData.IsPublished == nil || *reqData.IsPublished,
	}
	if err := db.Create(&video).Error; err != nil {
		return err
	}
	if err := db.Create(&models.VideoStats{VideoID: video.ID}).Error; err != nil {
		return err
	}

	row, err := loadVideo(db, video.ID)
	if err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "動画を登録しました", row)
}

func UpdateVideo(c *fiber.Ctx) error {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		return err
	}
	reqData := c.Locals("validatedVideoUpdate").(*contentValidator.UpdateVideoRequest)
	db := database.Database.Db

	if err := utils.MustExist(db, &models.Video{}, id, videoNotFound); err != nil {
		return err
	}

	updates := map[string]interface{}{"updated_at": utils.Now()}
	if reqData.Title != nil {
		updates["title"] = strings.TrimSpace(*reqData.Title)
	}
	if reqData.URL != nil {
		updates["url"] = strings.TrimSpace(*reqData.URL)
	}
	if reqData.ThumbnailURL != nil {
		updates["thumbnail_url"] = *reqData.ThumbnailURL
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
	if reqData.TrainingType != nil {
		updates["training_type"] = *reqData.TrainingType
	}
	if reqData.DurationSeconds != nil {
		updates["duration_seconds"] = *reqData.DurationSeconds
	}
	if reqData.IsPublished != nil {
		updates["is_published"] = *reqData.IsPublished
	}

	if err := db.Model(&models.Video{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return err
	}
	row, err := loadVideo(db, id)
	if err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "動画を更新しました", row)
}

func DeleteVideo(c *fiber.Ctx) error {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		return err
	}
	db := database.Database.Db

	if err := utils.MustExist(db, &models.Video{}, id, videoNotFound); err != nil {
		return err
	}
	if err := db.Where("video_id = ?", id).Delete(&models.VideoStats{}).Error; err != nil {
		return err
	}
	if err := db.Delete(&models.Video{}, id).Error; err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "動画を削除しました", nil)
}

// RecordVideoView increments the view counter in place.
func RecordVideoView(c *fiber.Ctx) error {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		return err
	}
	db := database.Database.Db

	if err := utils.MustExist(db, &models.Video{}, id, videoNotFound); err != nil {
		return err
	}

	res := db.Model(&models.VideoStats{}).Where("video_id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", 1))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		if err := db.Create(&models.VideoStats{VideoID: id, ViewCount: 1}).Error; err != nil {
			return err
		}
	}

	var stats models.VideoStats
	if err := db.Where("video_id = ?", id).First(&stats).Error; err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "", fiber.Map{"view_count": stats.ViewCount})
}

// UploadVideoThumbnail stores the multipart "thumbnail" image as WebP and links it to the video.
func UploadVideoThumbnail(c *fiber.Ctx) error {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		return err
	}
	db := database.Database.Db

	if err := utils.MustExist(db, &models.Video{}, id, videoNotFound); err != nil {
		return err
	}

	file, err := c.FormFile("thumbnail")
	if err != nil {
		return utils.ErrMissingFields("thumbnail")
	}
	url, err := utils.SaveThumbnail(file, config.AppConfig.UploadDir, "thumbnails")
	if err != nil {
		return err
	}

	if err := db.Model(&models.Video{}).Where("id = ?", id).Updates(map[string]interface{}{
		"thumbnail_url": url,
		"updated_at":    utils.Now(),
	}).Error; err != nil {
		return err
	}
	row, err := loadVideo(db, id)
	if err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "サムネイルを更新しました", row)
}
