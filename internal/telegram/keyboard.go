package telegram

import (
	"fmt"

	"github.com/go-telegram/bot/models"
	"github.com/set-night/ragzy/internal/domain"
	"github.com/set-night/ragzy/internal/view"
)

// Callback data.
const (
	CallbackUpload      = "upload_selected"
	CallbackRemoveFile  = "rm_file_"
	CallbackClearFiles  = "clear_files"
	CallbackHistoryPage = "hist_page"
	CallbackNoop        = "cur"
)

// InlineButton creates a single inline keyboard button.
func InlineButton(text, callbackData string) models.InlineKeyboardButton {
	return models.InlineKeyboardButton{
		Text:         text,
		CallbackData: callbackData,
	}
}

// InlineKeyboard creates an inline keyboard from rows of buttons.
func InlineKeyboard(rows ...[]models.InlineKeyboardButton) *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: rows,
	}
}

// PaginationRow creates a pagination row with prev/next buttons.
func PaginationRow(currentPage, totalPages int, callbackPrefix string) []models.InlineKeyboardButton {
	var row []models.InlineKeyboardButton

	if currentPage > 0 {
		row = append(row, InlineButton("⬅️", fmt.Sprintf("%s_%d", callbackPrefix, currentPage-1)))
	}

	row = append(row, InlineButton(
		fmt.Sprintf("%d/%d", currentPage+1, totalPages),
		CallbackNoop,
	))

	if currentPage < totalPages-1 {
		row = append(row, InlineButton("➡️", fmt.Sprintf("%s_%d", callbackPrefix, currentPage+1)))
	}

	return row
}

func UploadKeyboard() *models.InlineKeyboardMarkup {
	return InlineKeyboard([]models.InlineKeyboardButton{InlineButton("⬆️ Upload", CallbackUpload)})
}

// FilesKeyboard has one remove button per file and a clear-all button.
// It returns nil for an empty list.
func FilesKeyboard(files []domain.UploadedFileRecord) *models.InlineKeyboardMarkup {
	if len(files) == 0 {
		return nil
	}
	rows := make([][]models.InlineKeyboardButton, 0, len(files)+1)
	for i, f := range files {
		rows = append(rows, []models.InlineKeyboardButton{
			InlineButton(view.FileButtonLabel(i, f), fmt.Sprintf("%s%d", CallbackRemoveFile, i)),
		})
	}
	rows = append(rows, []models.InlineKeyboardButton{InlineButton("🧹 Remove all", CallbackClearFiles)})
	return InlineKeyboard(rows...)
}

// HistoryKeyboard pages through a transcript; nil when it fits one page.
func HistoryKeyboard(page, total int) *models.InlineKeyboardMarkup {
	if total <= 1 {
		return nil
	}
	return InlineKeyboard(PaginationRow(page, total, CallbackHistoryPage))
}
