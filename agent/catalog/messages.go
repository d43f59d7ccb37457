package catalog

import "fmt"

const (
	orderStoreApology = "متاسفم، در حال حاضر مشکلی در اتصال به پایگاه داده سفارش‌ها وجود دارد."
	menuStoreApology  = "متاسفم، مشکلی در اتصال به پایگاه داده منوی غذاها وجود دارد."
)

func statusSentence(id int64, status OrderStatus) string {
	return fmt.Sprintf("وضعیت سفارش %d، '%s' است.", id, status)
}

func notFoundSentence(id int64) string {
	return fmt.Sprintf("سفارشی با شناسه %d پیدا نشد.", id)
}

func cancelledSentence(id int64) string {
	return fmt.Sprintf("سفارش %d با موفقیت لغو شد.", id)
}

func cannotCancelSentence(id int64, status OrderStatus) string {
	return fmt.Sprintf("امکان لغو سفارش %d وجود ندارد زیرا وضعیت آن '%s' است.", id, status)
}
