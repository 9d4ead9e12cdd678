package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

const (
	flashSuccess = "success"
	flashError   = "error"

	flashCategoryKey = "flash_category"
	flashMessageKey  = "flash_message"
)

// flash is a one-shot message carried across the post/redirect/get cycle.
type flash struct {
	Category string
	Message  string
}

func setFlash(c *fiber.Ctx, sessions *session.Store, f flash) error {
	sess, err := sessions.Get(c)
	if err != nil {
		return err
	}
	sess.Set(flashCategoryKey, f.Category)
	sess.Set(flashMessageKey, f.Message)
	return sess.Save()
}

// popFlash returns the pending flash, or nil, and clears it.
func popFlash(c *fiber.Ctx, sessions *session.Store) (*flash, error) {
	sess, err := sessions.Get(c)
	if err != nil {
		return nil, err
	}
	msg, _ := sess.Get(flashMessageKey).(string)
	if msg == "" {
		return nil, nil
	}
	category, _ := sess.Get(flashCategoryKey).(string)
	sess.Delete(flashMessageKey)
	sess.Delete(flashCategoryKey)
	if err := sess.Save(); err != nil {
		return nil, err
	}
	return &flash{Category: category, Message: msg}, nil
}
