package bot

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/Brawl345/pixabot/utils"
	"github.com/PaulSonOfLars/gotgbot/v2"
	"golang.org/x/exp/slices"
)

// AllowService decides who may use the bot. An empty list allows everyone.
type AllowService struct {
	allowedIDs []int64
}

func NewAllowService(allowedIDs []int64) *AllowService {
	ids := slices.Clone(allowedIDs)
	slices.Sort(ids)
	return &AllowService{
		allowedIDs: slices.Compact(ids),
	}
}

// AllowServiceFromEnv reads the comma separated ALLOWED_IDS variable.
func AllowServiceFromEnv() (*AllowService, error) {
	ids, err := ParseIDs(os.Getenv("ALLOWED_IDS"))
	if err != nil {
		return nil, fmt.Errorf("ALLOWED_IDS: %w", err)
	}
	return NewAllowService(ids), nil
}

func ParseIDs(s string) ([]int64, error) {
	var ids []int64
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		id, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (service *AllowService) Open() bool {
	return len(service.allowedIDs) == 0
}

func (service *AllowService) IsUserAllowed(user *gotgbot.User) bool {
	if service.Open() {
		return true
	}

	if user == nil {
		return false
	}

	if utils.IsAdmin(user) {
		return true
	}

	_, found := slices.BinarySearch(service.allowedIDs, user.Id)
	return found
}

func (service *AllowService) IsChatAllowed(chat *gotgbot.Chat) bool {
	if service.Open() {
		return true
	}

	if chat == nil {
		return false
	}

	_, found := slices.BinarySearch(service.allowedIDs, chat.Id)
	return found
}
