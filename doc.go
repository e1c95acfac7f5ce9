// Package faqbot provides an embedded Go client for the hybrid answer
// engine: retrieval over a TF-IDF similarity index with an optional
// generative fallback.
//
// # Retrieval only
//
//	bot, _ := faqbot.New(faqbot.WithCorpusFile("faq.txt"))
//	reply := bot.Ask(ctx, "what are your opening hours?")
//	fmt.Println(reply.Text, reply.Source, reply.Score)
//
// # Hybrid with a generative fallback
//
//	bot, _ := faqbot.New(
//	    faqbot.WithCorpusFile("faq.txt"),
//	    faqbot.WithOpenAI(os.Getenv("OPENAI_API_KEY"), "gpt-4o-mini"),
//	    faqbot.WithThreshold(0.6),
//	)
//
// Queries whose best corpus match scores at or above the threshold return
// the matched sentence verbatim; everything else goes to the generative
// provider, and any failure degrades to a fixed apology. Ask never fails.
package faqbot
