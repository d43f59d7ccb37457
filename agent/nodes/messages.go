package orchestratornode

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	contractx "github.com/tanpawarit/chatfood/agent/contract"
)

const (
	WelcomeText     = "سلام! من ربات ChatFood هستم. چطور می‌توانم امروز به شما کمک کنم؟"
	ApologyText     = "متاسفم، یک خطای پیش‌بینی نشده رخ داد."
	PreparingOffer  = "لحظه‌ای لطفاً، در حال آماده کردن یک پیشنهاد ویژه برای شما هستم..."
	EmptyCartText   = "🛒 سبد خرید شما خالی است."
	cartHeader      = "🛒 اقلام موجود در سبد خرید شما:"
	addToCartLabel  = "🛒 افزودن به سبد خرید"
	offerAcceptText = "عالی! شما به پیشنهاد ویژه علاقه‌مند شدید. می‌توانید غذای مورد نظر را جستجو کرده و سفارش دهید."
	offerRejectText = "متوجه شدم. چطور می‌توانم به شکل دیگری کمکتان کنم؟"
)

func Text(s string) contractx.OutboundMessage {
	return contractx.OutboundMessage{Text: s}
}

func Apology() []contractx.OutboundMessage {
	return []contractx.OutboundMessage{Text(ApologyText)}
}

// OfferMessage wraps a recommendation greeting with accept/decline buttons.
func OfferMessage(greeting string) contractx.OutboundMessage {
	return contractx.OutboundMessage{
		Text: greeting,
		Actions: []contractx.Action{
			{Name: contractx.ActionOfferResponse, Label: "😍 بله، عالیه!", Payload: contractx.OfferAccept},
			{Name: contractx.ActionOfferResponse, Label: "🤔 نه، ممنون", Payload: contractx.OfferReject},
		},
	}
}

func OfferAcknowledgement(choice string) contractx.OutboundMessage {
	if choice == contractx.OfferAccept {
		return Text(offerAcceptText)
	}
	return Text(offerRejectText)
}

func CartConfirmation(name string, count int) contractx.OutboundMessage {
	return Text(fmt.Sprintf("✅ **%s** با موفقیت به سبد خرید اضافه شد!\nشما در حال حاضر **%d** آیتم در سبد دارید.", name, count))
}

func CartListing(cart []string) contractx.OutboundMessage {
	if len(cart) == 0 {
		return Text(EmptyCartText)
	}
	var b strings.Builder
	b.WriteString(cartHeader)
	for _, item := range cart {
		b.WriteString("\n- **")
		b.WriteString(item)
		b.WriteString("**")
	}
	return Text(b.String())
}

// FoodCard renders one search hit with its add-to-cart button. The button
// payload is the food name.
func FoodCard(item contractx.FoodItem) contractx.OutboundMessage {
	return contractx.OutboundMessage{
		Text: fmt.Sprintf("🍽 **%s**\nرستوران: %s\nقیمت: %s تومان", item.Name, item.Restaurant, humanize.Commaf(item.Price)),
		Actions: []contractx.Action{
			{Name: contractx.ActionAddToCart, Label: addToCartLabel, Payload: item.Name},
		},
	}
}
