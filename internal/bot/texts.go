package bot

const (
	textWelcome         = "Welcome to the shop!"
	textChooseCategory  = "Choose a category:"
	textNoCategories    = "No categories yet."
	textCategoryItems   = "Products in this category:"
	textNoProducts      = "No products in this category yet."
	textProductNotFound = "Product not found"
	textAddedToCart     = "Added to cart"
	textCartEmpty       = "Your cart is empty."
	textOperationFailed = "Operation failed, please try again later."
	textUnknownCommand  = "Unknown command. Send /help to see what I can do."
	textNoActiveFlow    = "I didn't get that. Use /catalog to browse products or /help for the list of commands."

	textAskName       = "Enter your name:"
	textAskPhone      = "Enter your phone number with the country code, e.g. +16502530000:"
	textAskAddress    = "Enter the delivery address:"
	textAskDelivery   = "Choose a delivery method:"
	textInvalidPhone  = "Invalid phone number. Please try again."
	textInvalidOption = "Please choose one of the offered options."
	textEmptyAnswer   = "The answer can't be empty. Please try again."
	textCheckoutEmpty = "Your cart is empty, there is nothing to order."
	textCancelled     = "Checkout cancelled."
	textNothingCancel = "There is no checkout in progress."

	textAccessDenied = "Access denied."

	textHelp = `/catalog - browse the catalog
/cart - your cart
/checkout - place an order
/cancel - cancel checkout
/help - this help`

	textAdminHelp = `Admin commands:
/add_category <name>
/add_product <title>|<description>|<price>|<category>|[photo_url]
/edit_product <id> <field> <value> (fields: title, description, price, active, category, photo)
/orders [status]
/set_status <id> <status>`

	usageAddCategory = "Usage: /add_category <name>"
	usageAddProduct  = "Usage: /add_product <title>|<description>|<price>|<category>|[photo_url]"
	usageEditProduct = "Usage: /edit_product <id> <field> <value>"
	usageSetStatus   = "Usage: /set_status <id> <status>"
)
