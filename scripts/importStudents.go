package main

import (
	"coachhub/config"
	"coachhub/database"
	"coachhub/models"
	"coachhub/utils"
	studentValidator "coachhub/validators/student"
	"encoding/csv"
	"log"
	"os"
	"strconv"
	"strings"
)

// Usage: go run scripts/importStudents.go [students.csv]
// Columns: name, name_kana, birth_date, level, school, class_type, guardian_email.
// Rows that fail validation or already exist (same name and birth date) are skipped.
func main() {
	config.LoadConfig()
	database.ConnectDb()
	defer database.Close()
	utils.SetLocation(config.AppConfig.Timezone)

	path := "students.csv"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	file, err := os.Open(path)
	if err != nil {
		log.Fatalf("Failed to open CSV file: %v", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		log.Fatalf("Failed to read CSV: %v", err)
	}
	if len(records) < 2 {
		log.Fatal("CSV file is empty or has only headers")
	}

	headerIndex := make(map[string]int)
	for i, h := range records[0] {
		headerIndex[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	log.Printf("Total rows to import: %d", len(records)-1)

	inserted, skipped := 0, 0
	for i, row := range records[1:] {
		level, _ := strconv.Atoi(getField(row, headerIndex, "level"))
		req := studentValidator.CreateStudentRequest{
			Name:          getField(row, headerIndex, "name"),
			NameKana:      getField(row, headerIndex, "name_kana"),
			BirthDate:     getField(row, headerIndex, "birth_date"),
			Level:         level,
			School:        getField(row, headerIndex, "school"),
			ClassType:     getField(row, headerIndex, "class_type"),
			GuardianEmail: getField(row, headerIndex, "guardian_email"),
		}
		req.Normalize()

		if err := utils.ValidateStruct(&req); err != nil {
			log.Printf("Row %d skipped: %v", i+2, err)
			skipped++
			continue
		}

		var count int64
		database.Database.Db.Model(&models.Student{}).
			Where("name = ? AND birth_date = ?", req.Name, req.BirthDate).Count(&count)
		if count > 0 {
			skipped++
			continue
		}

		student := models.Student{
			Name:           req.Name,
			NameKana:       req.NameKana,
			BirthDate:      req.BirthDate,
			Level:          req.Level,
			School:         req.School,
			ClassType:      req.ClassType,
			Status:         req.Status,
			EnrollmentDate: utils.Today(),
			GuardianEmail:  req.GuardianEmail,
		}
		if err := database.Database.Db.Create(&student).Error; err != nil {
			log.Printf("Error inserting row %d (%s): %v", i+2, req.Name, err)
			skipped++
			continue
		}
		inserted++
	}

	log.Printf("Import complete: %d inserted, %d skipped", inserted, skipped)
}

func getField(row []string, headerIndex map[string]int, key string) string {
	if idx, ok := headerIndex[key]; ok && idx < len(row) {
		return strings.TrimSpace(row[idx])
	}
	return ""
}
