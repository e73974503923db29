package shop

import (
	"fmt"
	"strconv"
	"strings"

	"dokonbot/catalog"
	"dokonbot/core/telegram/keyboard"

	tele "gopkg.in/telebot.v4"
)

// User-facing copy, kept in Uzbek to match the audience of the shop.
const (
	msgAskContact     = "Iltimos, telefon raqamingizni yuboring"
	msgContactSaved   = "Rahmat!"
	msgAskLocation    = "Iltimos, lokatsiyangizni yuboring"
	msgOrderAccepted  = "Buyurtmangiz qabul qilindi!"
	msgListHeader     = "Mahsulotlar ro'yxati:"
	msgEmptyCatalog   = "Hozircha mahsulotlar mavjud emas"
	btnShareContact   = "Telefon raqamni yuboring"
	btnShareLocation  = "Lokatsiyani yuboring"
	btnOrder          = "Buyurtma qilish"
	btnPrev           = "Previous"
	btnNext           = "Next"
	productsPerButton = 5
)

func contactKeyboard() *tele.ReplyMarkup {
	return keyboard.ContactRequest(btnShareContact)
}

func locationKeyboard() *tele.ReplyMarkup {
	return keyboard.LocationRequest(btnShareLocation)
}

func listText(page catalog.Page) string {
	if len(page.Items) == 0 {
		return msgEmptyCatalog
	}
	var b strings.Builder
	b.WriteString(msgListHeader)
	for i, item := range page.Items {
		b.WriteString(fmt.Sprintf("\n%d. %s %s", i+1, item.Product.Name, item.Product.Price))
	}
	return b.String()
}

func listMarkup(page catalog.Page) *tele.ReplyMarkup {
	selectors := make([]keyboard.InlineBtn, 0, len(page.Items))
	for i, item := range page.Items {
		selectors = append(selectors, keyboard.InlineBtn{
			Text:   strconv.Itoa(i + 1),
			Unique: CallbackProduct,
			Data:   strconv.Itoa(item.Ordinal),
		})
	}
	markup := keyboard.InlineButtonsNPerRow(selectors, productsPerButton)

	var nav []keyboard.InlineBtn
	if page.HasPrev() {
		nav = append(nav, keyboard.InlineBtn{
			Text:   btnPrev,
			Unique: CallbackPage,
			Data:   strconv.Itoa(page.Index - 1),
		})
	}
	if page.HasNext() {
		nav = append(nav, keyboard.InlineBtn{
			Text:   btnNext,
			Unique: CallbackPage,
			Data:   strconv.Itoa(page.Index + 1),
		})
	}
	if len(nav) > 0 {
		markup = keyboard.AppendRow(markup, nav)
	}
	return markup
}

func detailText(p catalog.Product) string {
	return fmt.Sprintf("%s %s\n\nTarkibi: %s", p.Name, p.Price, p.Description)
}

func detailMarkup(ordinal int) *tele.ReplyMarkup {
	return keyboard.InlineButtons([]keyboard.InlineBtn{{
		Text:   btnOrder,
		Unique: CallbackOrder,
		Data:   strconv.Itoa(ordinal),
	}})
}

func adminDraft(productName, username, phone string) string {
	return fmt.Sprintf("Buyurtma:\n\nMahsulot: %s\nUsername: @%s\nTelefon raqam: %s",
		productName, username, phone)
}
