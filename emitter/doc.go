// Package emitter serializes extracted schemas into target schema code.
//
// The built-in target is Zod. [ZodEmitter.Emit] produces one TypeScript
// module; [ZodEmitter.EmitFiles] produces one module per schema plus an
// index, which [Archive] can bundle into a single txtar stream.
//
// Schemas are ordered so that every referenced schema is declared before its
// first use (see [Order]). Rules whose outcome depends on other fields, such
// as required_if or confirmed, are emitted as a superRefine block on the
// schema object. Fields below an array wildcard get no such block.
//
// Example output for a request with a conditional field:
//
//	export const ContactSchema = z.object({
//	  contact: z.enum(["email", "phone"]),
//	  phone: z.string().optional(),
//	}).superRefine((data, ctx) => {
//	  if (String(data.contact) === "phone" && (data.phone == null || String(data.phone).trim() === '')) {
//	    ctx.addIssue({
//	      code: z.ZodIssueCode.custom,
//	      message: "The phone field is required when contact is phone.",
//	      path: ["phone"],
//	    });
//	  }
//	});
//	export type Contact = z.infer<typeof ContactSchema>;
package emitter
