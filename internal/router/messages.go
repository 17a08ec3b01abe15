package router

const (
	msgGenericError   = "❌ Something went wrong. Please try again later."
	msgNetworkError   = "❌ Could not reach Wikipedia. Please try again."
	msgExportError    = "❌ Failed to create the PDF. Please try again."
	msgNotFound       = "❌ Article not found: %s\n\nTry another keyword or switch language with /language"
	msgRateLimited    = "⏳ Please wait %d seconds..."
	msgUnknownCommand = "❌ Unknown command.\n\nType /help to see the available commands."

	msgCompareSideFailed = "⚠️ Could not load the %s topic, %s."

	msgSearchUsage = "❌ Please provide a search keyword.\n\n" +
		"*Example:*\n" +
		"`/search Python programming`\n" +
		"`/search Artificial Intelligence`"
	msgPdfUsage = "❌ Please provide a keyword.\n\n" +
		"*Example:*\n" +
		"`/pdf Python programming`"
	msgBookmarkUsage = "❌ Please provide an article name.\n\n" +
		"*Example:*\n" +
		"`/bookmark Python programming`"
	msgCompareUsage = "❌ Invalid format.\n\n" +
		"*Use:*\n" +
		"`/compare Topic1 vs Topic2`\n\n" +
		"*Examples:*\n" +
		"`/compare Python vs Java`\n" +
		"`/compare iPhone vs Android`\n" +
		"`/compare Bitcoin vs Ethereum`"
	msgCompareTwoTopics = "❌ Please compare exactly 2 topics.\n" +
		"Example: `/compare Python vs Java`"

	msgWelcome = "👋 Hi %s!\n\n" +
		"I am the *Wikipedia Scraper Bot* and I can help you:\n\n" +
		"🔍 Search Wikipedia articles\n" +
		"📄 Export articles to PDF\n" +
		"🌍 Switch between languages\n" +
		"🔖 Bookmark favorite articles\n" +
		"🎲 Discover random articles\n\n" +
		"Type /help to see every command."

	msgHelp = "📚 *Available commands:*\n\n" +
		"🔹 *Search & information*\n" +
		"/search <query> - Search a Wikipedia article\n" +
		"/pdf <query> - Export an article to PDF\n" +
		"/random - Get a random article\n" +
		"/compare <A> vs <B> - Compare 2 articles\n\n" +
		"🔹 *Bookmarks*\n" +
		"/bookmark <query> - Save an article\n" +
		"/bookmarks - Show saved articles\n" +
		"/clear\\_bookmarks - Remove every bookmark\n\n" +
		"🔹 *Settings*\n" +
		"/language - Switch language (EN/ID)\n" +
		"/stats - Show your statistics\n\n" +
		"🔹 *Other*\n" +
		"/help - Show this message\n" +
		"/about - About this bot\n\n" +
		"*Examples:*\n" +
		"`/search Python programming`\n" +
		"`/pdf Artificial Intelligence`\n" +
		"`/compare Python vs Java`\n" +
		"`/bookmark Machine Learning`\n\n" +
		"_Tip: you can also mention the bot in group chats!_"

	msgAbout = "ℹ️ *About Wikipedia Scraper Bot*\n\n" +
		"This bot gives you quick access to Wikipedia straight from Telegram.\n\n" +
		"*Features:*\n" +
		"• 🔍 Fast article search\n" +
		"• 📄 PDF export\n" +
		"• 🌍 Multi-language (EN/ID)\n" +
		"• 🔖 Bookmarks\n" +
		"• 🎲 Random article discovery\n" +
		"• 📊 Side-by-side comparison\n\n" +
		"*Built with:*\n" +
		"• Go\n" +
		"• colly and goquery\n" +
		"• fpdf\n" +
		"• telegram-bot-api\n\n" +
		"_Made for educational purposes._"

	msgLanguageMenu = "🌍 *Choose a Wikipedia language*\n\n" +
		"Current language: *%s*\n\n" +
		"Pick a language below:"
	msgLanguageChanged = "✅ Language changed to %s"

	msgStats = "📊 *Your statistics*\n\n" +
		"🔍 Searches: *%d*\n" +
		"🔖 Bookmarks: *%d*\n" +
		"🌍 Language: *%s*\n"

	msgBookmarkAdded       = "✅ Bookmarked: %s\n\nSee all bookmarks: /bookmarks"
	msgBookmarkExists      = "ℹ️ Already bookmarked: %s"
	msgBookmarkAddedToast  = "✅ Saved: %s"
	msgBookmarkExistsToast = "ℹ️ Already bookmarked"
	msgNoBookmarks         = "📚 No bookmarks yet.\n\nSave one with: `/bookmark <article name>`"
	msgBookmarksCleared    = "📚 All bookmarks have been removed."
	msgBookmarksClearToast = "✅ All bookmarks removed"

	msgPdfToast   = "📄 Generating PDF..."
	msgPdfCaption = "📄 %s\n\n🌍 Language: %s"
)
