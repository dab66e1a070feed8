package service

import (
	"bytes"
	"fmt"

	"github.com/ikkim/wishwall-backend/internal/app/model"
	"github.com/ikkim/wishwall-backend/internal/app/repository"
	"github.com/ikkim/wishwall-backend/pkg/logger"
	"github.com/xuri/excelize/v2"
)

const exportPageSize = 500

type ExportService interface {
	// ExportWishes renders every wish into an xlsx workbook.
	ExportWishes() (*bytes.Buffer, error)
}

type exportService struct {
	wishRepo repository.WishRepository
}

func NewExportService(wishRepo repository.WishRepository) ExportService {
	return &exportService{wishRepo: wishRepo}
}

func (s *exportService) ExportWishes() (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Wishes"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"ID", "Wish", "Name", "Author", "Supports", "Created At"}
	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, err
		}
	}

	rowNum := 2
	for offset := 0; ; offset += exportPageSize {
		page, err := s.wishRepo.FindLatest(exportPageSize, offset)
		if err != nil {
			logger.Error("Failed to fetch wishes for export", err, map[string]interface{}{
				"offset": offset,
			})
			return nil, err
		}
		for i := range page {
			if err := s.writeRow(f, sheet, rowNum, &page[i]); err != nil {
				return nil, err
			}
			rowNum++
		}
		if len(page) < exportPageSize {
			break
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}

	logger.Info("Wishes exported", map[string]interface{}{
		"rows": rowNum - 2,
	})
	return buf, nil
}

func (s *exportService) writeRow(f *excelize.File, sheet string, rowNum int, wish *model.Wish) error {
	author := "anonymous session"
	if wish.UserID != nil {
		author = fmt.Sprintf("user:%d", *wish.UserID)
	}

	values := []interface{}{
		wish.ID,
		wish.Content,
		wish.DisplayName(),
		author,
		wish.SupportCount,
		wish.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	for col, value := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, rowNum)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			return err
		}
	}
	return nil
}
