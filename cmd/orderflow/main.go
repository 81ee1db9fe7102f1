// Command orderflow is a terminal front end for the ordering SDK:
// browse the menu, build a cart, check out, and inspect past orders.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/foodworks/orderflow"
	"github.com/foodworks/orderflow/cart"
	"github.com/foodworks/orderflow/core"
)

func main() {
	baseURL := flag.String("api", "", "ordering API base URL (default $ORDERFLOW_API_URL)")
	configFile := flag.String("config", "", "optional YAML config file")
	flag.Parse()

	var opts []core.Option
	if *configFile != "" {
		opts = append(opts, core.WithConfigFile(*configFile))
	}
	if *baseURL != "" {
		opts = append(opts, core.WithBaseURL(*baseURL))
	}

	app, err := orderflow.New(opts...)
	if err != nil {
		log.Fatal(err)
	}
	defer app.Close()

	ctx := context.Background()

	if app.Sessions != nil {
		if id, err := app.ResumeSession(ctx, os.Getenv("ORDERFLOW_SESSION_ID")); err != nil {
			log.Printf("session resume failed: %v", err)
		} else {
			fmt.Printf("session: %s\n", id)
		}
	}

	// Badge counter: the same reactive consumer a UI would register
	unsubscribe := app.Cart.Subscribe(func(snap cart.Snapshot) {
		fmt.Printf("[cart: %d items, %s]\n", snap.ItemCount, core.FormatPrice(snap.TotalPrice))
	})
	defer unsubscribe()

	repl(ctx, app)
}

func repl(ctx context.Context, app *orderflow.App) {
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Println("commands: menu | add <id> | qty <id> <n> | rm <id> | cart | checkout | orders | order <id> | quit")

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "menu":
			showMenu(ctx, app)
		case "add":
			addItem(ctx, app, fields)
		case "qty":
			setQuantity(app, fields)
		case "rm":
			if id, ok := parseID(fields, 1); ok {
				app.Cart.RemoveItem(id)
			}
		case "cart":
			showCart(app)
		case "checkout":
			runCheckout(ctx, app, scanner)
		case "orders":
			showOrders(ctx, app)
		case "order":
			if id, ok := parseID(fields, 1); ok {
				showOrder(ctx, app, id)
			}
		case "quit", "exit":
			return
		default:
			fmt.Println("unknown command")
		}
	}
}

func showMenu(ctx context.Context, app *orderflow.App) {
	items, err := app.Menu.Available(ctx)
	if err != nil {
		fmt.Println(orderflow.UserMessage(err))
		return
	}
	for _, item := range items {
		fmt.Printf("%3d  %-30s %8s  %s\n", item.ID, item.Name, core.FormatPrice(item.Price), item.Category)
	}
}

func addItem(ctx context.Context, app *orderflow.App, fields []string) {
	id, ok := parseID(fields, 1)
	if !ok {
		return
	}
	items, err := app.Menu.Available(ctx)
	if err != nil {
		fmt.Println(orderflow.UserMessage(err))
		return
	}
	for _, item := range items {
		if item.ID == id {
			app.Cart.AddItem(item)
			fmt.Printf("added %s (cart: %d items)\n", item.Name, app.Cart.TotalItemCount())
			return
		}
	}
	fmt.Println("no such item on the menu")
}

func setQuantity(app *orderflow.App, fields []string) {
	id, ok := parseID(fields, 1)
	if !ok {
		return
	}
	if len(fields) < 3 {
		fmt.Println("usage: qty <id> <n>")
		return
	}
	// Integer-only at the boundary; fractional or junk input is
	// rejected before it reaches the store.
	qty, err := strconv.Atoi(fields[2])
	if err != nil {
		fmt.Println("quantity must be a whole number")
		return
	}
	app.Cart.UpdateQuantity(id, qty)
}

func showCart(app *orderflow.App) {
	lines := app.Cart.Lines()
	if len(lines) == 0 {
		fmt.Println("cart is empty")
		return
	}
	for _, l := range lines {
		fmt.Printf("%3d  %-30s x%-3d %8s\n", l.Item.ID, l.Item.Name, l.Quantity, core.FormatPrice(l.LineTotal()))
	}
	quote := app.Checkout.Quote(0)
	fmt.Printf("subtotal %s  tax %s\n", core.FormatPrice(quote.Subtotal), core.FormatPrice(quote.Tax))
}

func runCheckout(ctx context.Context, app *orderflow.App, scanner *bufio.Scanner) {
	payment := core.PaymentDetails{}
	prompts := []struct {
		label string
		dst   *string
	}{
		{"card number", &payment.CardNumber},
		{"expiry month (MM)", &payment.ExpiryMonth},
		{"expiry year (YYYY)", &payment.ExpiryYear},
		{"cvv", &payment.CVV},
	}
	for _, p := range prompts {
		fmt.Printf("%s: ", p.label)
		if !scanner.Scan() {
			return
		}
		*p.dst = strings.TrimSpace(scanner.Text())
	}

	fmt.Print("tip: ")
	if !scanner.Scan() {
		return
	}
	tip := core.ParseTip(strings.TrimSpace(scanner.Text()))

	quote := app.Checkout.Quote(tip)
	fmt.Printf("subtotal %s  tax %s  tip %s  total %s\n",
		core.FormatPrice(quote.Subtotal), core.FormatPrice(quote.Tax),
		core.FormatPrice(quote.Tip), core.FormatPrice(quote.Total))

	orderID, err := app.Checkout.Submit(ctx, tip, payment)
	if err != nil {
		fmt.Println(orderflow.UserMessage(err))
		return
	}
	fmt.Printf("order #%d placed\n", orderID)
	showOrder(ctx, app, orderID)
}

func showOrders(ctx context.Context, app *orderflow.App) {
	list, err := app.History.List(ctx)
	if err != nil {
		fmt.Println(orderflow.UserMessage(err))
		return
	}
	if len(list) == 0 {
		fmt.Println("no orders yet")
		return
	}
	for _, o := range list {
		fmt.Printf("#%-5d %s  %s\n", o.ID, o.OrderTime.Local().Format("2006-01-02 15:04"), o.Status)
	}
}

func showOrder(ctx context.Context, app *orderflow.App, orderID int) {
	detail, err := app.Orders.Assemble(ctx, orderID)
	if err != nil {
		fmt.Println(orderflow.UserMessage(err))
		return
	}
	fmt.Printf("order #%d  %s  %s\n", detail.Order.ID,
		detail.Order.OrderTime.Local().Format("2006-01-02 15:04"), detail.Order.Status)
	for _, item := range detail.Items {
		fmt.Printf("  %-30s %8s\n", item.Name, core.FormatPrice(item.Price))
	}
	fmt.Printf("subtotal %s  tax %s  tip %s  total %s\n",
		core.FormatPrice(detail.Subtotal), core.FormatPrice(detail.Order.Tax),
		core.FormatPrice(detail.Order.Tip), core.FormatPrice(detail.Total))
}

func parseID(fields []string, pos int) (int, bool) {
	if len(fields) <= pos {
		fmt.Println("missing item id")
		return 0, false
	}
	id, err := strconv.Atoi(fields[pos])
	if err != nil {
		fmt.Println("id must be a number")
		return 0, false
	}
	return id, true
}
